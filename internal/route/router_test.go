package route

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appcontext "github.com/SeakMengs/Annotator/internal/app_context"
	"github.com/SeakMengs/Annotator/internal/auth"
	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/SeakMengs/Annotator/internal/controller"
	"github.com/SeakMengs/Annotator/internal/database"
	"github.com/SeakMengs/Annotator/internal/middleware"
	"github.com/SeakMengs/Annotator/internal/model"
	"github.com/SeakMengs/Annotator/internal/policy/collectionpolicy"
	ratelimiter "github.com/SeakMengs/Annotator/internal/rate_limiter"
	"github.com/SeakMengs/Annotator/internal/repository"
	"github.com/SeakMengs/Annotator/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []util.ApiError `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	app    *appcontext.Application
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if err := util.RegisterCustomValidators(); err != nil {
		t.Fatal(err)
	}

	db, err := database.ConnectSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("ConnectSQLite() error = %v", err)
	}
	sqlDb, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDb.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	cfg := config.Config{
		ENV:      "test",
		FrontURL: "http://localhost:3000",
		Auth:     config.AuthConfig{JWT_SECRET: "test-secret"},
		IIIF:     config.IIIFConfig{Zoom: 0, ThumbnailSize: "!256,256"},
	}
	logger := zap.NewNop().Sugar()
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, jwtService, nil)

	app := &appcontext.Application{
		Config:     &cfg,
		Logger:     logger,
		Repository: repo,
		JWTService: jwtService,
		OAuthState: auth.NewStateStore(0),
		Gate:       collectionpolicy.NewGate(repo.Collection, logger),
	}

	mw := middleware.NewMiddleware(app, ratelimiter.NewRateLimiter(config.RateLimiterConfig{}, logger))

	return &testServer{
		t:      t,
		router: NewRouter(app, controller.NewController(app), mw),
		app:    app,
		tokens: map[string]string{},
	}
}

func (s *testServer) signup(email string) *model.User {
	s.t.Helper()

	user, err := s.app.Repository.User.Create(context.Background(), nil, &model.User{Email: email, FirstName: strings.Split(email, "@")[0]})
	if err != nil {
		s.t.Fatalf("create user %s: %v", email, err)
	}

	_, accessToken, err := s.app.JWTService.GenerateRefreshAndAccessToken(auth.JWTPayload{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
	})
	if err != nil {
		s.t.Fatal(err)
	}
	s.tokens[email] = *accessToken

	return user
}

// do sends a json request as the user with email, or anonymously when email is empty.
func (s *testServer) do(method, path, email string, body any) (int, apiResponse) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[email])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		s.t.Fatalf("%s %s: invalid response body %q: %v", method, path, w.Body.String(), err)
	}

	return w.Code, res
}

func (s *testServer) mustDo(method, path, email string, body any, wantStatus int, out any) {
	s.t.Helper()

	status, res := s.do(method, path, email, body)
	if status != wantStatus {
		s.t.Fatalf("%s %s as %q: status = %d, want %d, errors = %+v", method, path, email, status, wantStatus, res.Errors)
	}

	if out != nil {
		if err := json.Unmarshal(res.Data, out); err != nil {
			s.t.Fatalf("%s %s: decode data %s: %v", method, path, res.Data, err)
		}
	}
}

func (s *testServer) createCollection(email, name string) uint {
	s.t.Helper()

	var data struct {
		Collection model.Collection `json:"collection"`
	}
	s.mustDo(http.MethodPost, "/api/v1/collections", email, map[string]any{"name": name}, http.StatusCreated, &data)
	return data.Collection.ID
}

func errorFields(errs []util.ApiError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestManuscriptsScenario(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	s.signup("bob@example.com")

	id := s.createCollection("alice@example.com", "Manuscripts")
	collectionPath := fmt.Sprintf("/api/v1/collections/%d", id)

	// Bob is a stranger
	s.mustDo(http.MethodGet, collectionPath, "bob@example.com", nil, http.StatusForbidden, nil)

	var added struct {
		Added   bool         `json:"added"`
		Members []model.User `json:"members"`
	}
	s.mustDo(http.MethodPost, collectionPath+"/members", "alice@example.com", map[string]string{"email": "bob@example.com"}, http.StatusOK, &added)
	if !added.Added || len(added.Members) != 1 || added.Members[0].Email != "bob@example.com" {
		t.Fatalf("add member response = %+v", added)
	}

	var got struct {
		Collection model.Collection `json:"collection"`
		Role       string           `json:"role"`
	}
	s.mustDo(http.MethodGet, collectionPath, "bob@example.com", nil, http.StatusOK, &got)
	if got.Role != "member" || got.Collection.Name != "Manuscripts" {
		t.Errorf("bob sees role %q on %q", got.Role, got.Collection.Name)
	}

	status, res := s.do(http.MethodDelete, collectionPath+"/members", "alice@example.com", map[string]string{"email": "alice@example.com"})
	if status != http.StatusBadRequest {
		t.Errorf("removing the owner: status = %d, want 400", status)
	}
	if diff := cmp.Diff([]string{"email"}, errorFields(res.Errors)); diff != "" {
		t.Errorf("removing the owner: error fields (-want +got):\n%s", diff)
	}

	s.mustDo(http.MethodDelete, collectionPath, "bob@example.com", nil, http.StatusForbidden, nil)

	// Nothing was deleted
	s.mustDo(http.MethodGet, collectionPath, "alice@example.com", nil, http.StatusOK, nil)
}

func TestMembershipRequests(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	s.signup("bob@example.com")
	s.signup("carol@example.com")

	id := s.createCollection("alice@example.com", "Manuscripts")
	membersPath := fmt.Sprintf("/api/v1/collections/%d/members", id)
	s.mustDo(http.MethodPost, membersPath, "alice@example.com", map[string]string{"email": "bob@example.com"}, http.StatusOK, nil)

	tests := []struct {
		name       string
		method     string
		as         string
		email      string
		wantStatus int
		wantField  string
	}{
		{"adding again is a no-op", http.MethodPost, "alice@example.com", "BOB@example.com", http.StatusOK, ""},
		{"adding the owner is a no-op", http.MethodPost, "alice@example.com", "alice@example.com", http.StatusOK, ""},
		{"invalid email", http.MethodPost, "alice@example.com", "not-an-email", http.StatusBadRequest, "email"},
		{"unknown user", http.MethodPost, "alice@example.com", "nobody@example.com", http.StatusBadRequest, "email"},
		{"member cannot add", http.MethodPost, "bob@example.com", "carol@example.com", http.StatusForbidden, ""},
		{"member cannot remove", http.MethodDelete, "bob@example.com", "bob@example.com", http.StatusForbidden, ""},
		{"removing a non-member is a no-op", http.MethodDelete, "alice@example.com", "carol@example.com", http.StatusOK, ""},
		{"remove with invalid email", http.MethodDelete, "alice@example.com", "bob@", http.StatusBadRequest, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := s.do(tt.method, membersPath, tt.as, map[string]string{"email": tt.email})
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d, errors = %+v", status, tt.wantStatus, res.Errors)
			}
			if tt.wantField != "" {
				if diff := cmp.Diff([]string{tt.wantField}, errorFields(res.Errors)); diff != "" {
					t.Errorf("error fields (-want +got):\n%s", diff)
				}
			}
		})
	}

	var list struct {
		Owner   model.User   `json:"owner"`
		Members []model.User `json:"members"`
	}
	s.mustDo(http.MethodGet, membersPath, "bob@example.com", nil, http.StatusOK, &list)
	if list.Owner.Email != "alice@example.com" || len(list.Members) != 1 {
		t.Errorf("members = %+v", list)
	}

	var removed struct {
		Removed bool         `json:"removed"`
		Members []model.User `json:"members"`
	}
	s.mustDo(http.MethodDelete, membersPath, "alice@example.com", map[string]string{"email": "bob@example.com"}, http.StatusOK, &removed)
	if !removed.Removed || len(removed.Members) != 0 {
		t.Errorf("remove response = %+v", removed)
	}

	// Bob lost access
	s.mustDo(http.MethodGet, membersPath, "bob@example.com", nil, http.StatusForbidden, nil)
}

func TestCollectionAccessErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	id := s.createCollection("alice@example.com", "Manuscripts")

	tests := []struct {
		name       string
		path       string
		as         string
		wantStatus int
	}{
		{"anonymous", fmt.Sprintf("/api/v1/collections/%d", id), "", http.StatusUnauthorized},
		{"missing collection", "/api/v1/collections/999", "alice@example.com", http.StatusNotFound},
		{"malformed id", "/api/v1/collections/abc", "alice@example.com", http.StatusBadRequest},
		{"missing schema", fmt.Sprintf("/api/v1/collections/%d/schemas/42", id), "alice@example.com", http.StatusNotFound},
		{"missing image", fmt.Sprintf("/api/v1/collections/%d/images/42", id), "alice@example.com", http.StatusNotFound},
		{"annotations of missing image", fmt.Sprintf("/api/v1/collections/%d/images/42/annotations", id), "alice@example.com", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := s.do(http.MethodGet, tt.path, tt.as, nil)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if res.Success {
				t.Error("success = true on an error response")
			}
		})
	}
}

func TestCollectionNameRules(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	id := s.createCollection("alice@example.com", "  Manuscripts  ")
	path := fmt.Sprintf("/api/v1/collections/%d", id)

	tests := []struct {
		name       string
		method     string
		path       string
		body       map[string]any
		wantStatus int
	}{
		{"blank name on create", http.MethodPost, "/api/v1/collections", map[string]any{"name": "   "}, http.StatusBadRequest},
		{"long name on create", http.MethodPost, "/api/v1/collections", map[string]any{"name": strings.Repeat("a", 101)}, http.StatusBadRequest},
		{"padded name at the limit", http.MethodPost, "/api/v1/collections", map[string]any{"name": " " + strings.Repeat("a", 100) + " "}, http.StatusCreated},
		{"blank name on update", http.MethodPatch, path, map[string]any{"name": "  "}, http.StatusBadRequest},
		{"long schema name", http.MethodPost, path + "/schemas", map[string]any{"name": strings.Repeat("s", 101), "schema": map[string]any{"type": "object"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := s.do(tt.method, tt.path, "alice@example.com", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%+v)", status, tt.wantStatus, res.Errors)
			}
			if tt.wantStatus == http.StatusBadRequest {
				if diff := cmp.Diff([]string{"Name"}, errorFields(res.Errors)); diff != "" {
					t.Errorf("error fields mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestMyCollections(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	s.signup("bob@example.com")

	shared := s.createCollection("alice@example.com", "Manuscripts")
	s.createCollection("alice@example.com", "Maps")
	s.createCollection("bob@example.com", "Herbarium")
	s.mustDo(http.MethodPost, fmt.Sprintf("/api/v1/collections/%d/members", shared), "alice@example.com", map[string]string{"email": "bob@example.com"}, http.StatusOK, nil)

	var data struct {
		Collections []repository.CollectionResponse `json:"collections"`
		Total       int64                           `json:"total"`
		TotalPage   int                             `json:"totalPage"`
	}
	s.mustDo(http.MethodGet, "/api/v1/me/collections", "bob@example.com", nil, http.StatusOK, &data)

	names := map[string]bool{}
	for _, c := range data.Collections {
		names[c.Name] = true
	}
	if data.Total != 2 || !names["Manuscripts"] || !names["Herbarium"] {
		t.Errorf("bob's collections = %+v", data)
	}

	s.mustDo(http.MethodGet, "/api/v1/me/collections?search=herb", "bob@example.com", nil, http.StatusOK, &data)
	if data.Total != 1 || data.Collections[0].Name != "Herbarium" {
		t.Errorf("search result = %+v", data)
	}
}

func TestAnnotationLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	s.signup("bob@example.com")

	id := s.createCollection("alice@example.com", "Manuscripts")
	base := fmt.Sprintf("/api/v1/collections/%d", id)
	s.mustDo(http.MethodPost, base+"/members", "alice@example.com", map[string]string{"email": "bob@example.com"}, http.StatusOK, nil)

	glyph := map[string]any{
		"type":       "object",
		"properties": map[string]any{"label": map[string]any{"type": "string", "minLength": 1}},
		"required":   []string{"label"},
	}

	status, res := s.do(http.MethodPost, base+"/schemas", "alice@example.com", map[string]any{"name": "Broken", "schema": map[string]any{"type": 5}})
	if status != http.StatusBadRequest {
		t.Errorf("invalid schema document: status = %d, want 400", status)
	}
	if diff := cmp.Diff([]string{"schema"}, errorFields(res.Errors)); diff != "" {
		t.Errorf("invalid schema document: error fields (-want +got):\n%s", diff)
	}

	var schemaRes struct {
		Schema model.Schema `json:"schema"`
	}
	s.mustDo(http.MethodPost, base+"/schemas", "alice@example.com", map[string]any{"name": "Glyph", "schema": glyph}, http.StatusCreated, &schemaRes)
	schemaID := schemaRes.Schema.ID
	if schemaRes.Schema.Color != "#3388ff" {
		t.Errorf("default color = %q", schemaRes.Schema.Color)
	}

	var imageRes struct {
		Image model.Image `json:"image"`
	}
	s.mustDo(http.MethodPost, base+"/images", "bob@example.com", map[string]any{
		"name":   "Folio 1r",
		"url":    "https://iiif.example.com/iiif/2/folio1r",
		"width":  4000,
		"height": 3000,
	}, http.StatusCreated, &imageRes)
	annotationsPath := fmt.Sprintf("%s/images/%d/annotations", base, imageRes.Image.ID)

	// Schema of another collection
	other := s.createCollection("alice@example.com", "Maps")
	var otherSchema struct {
		Schema model.Schema `json:"schema"`
	}
	s.mustDo(http.MethodPost, fmt.Sprintf("/api/v1/collections/%d/schemas", other), "alice@example.com", map[string]any{"name": "Glyph", "schema": glyph}, http.StatusCreated, &otherSchema)

	polygon := map[string]any{
		"type":        "Polygon",
		"coordinates": [][][]float64{{{10, -20}, {30, -20}, {30, -50}, {10, -50}, {10, -20}}},
	}

	invalid := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{"data misses a required property", map[string]any{"schemaId": schemaID, "data": map[string]any{}, "geometry": polygon}, "data"},
		{"data has the wrong type", map[string]any{"schemaId": schemaID, "data": map[string]any{"label": 7}, "geometry": polygon}, "data/label"},
		{"unsupported geometry", map[string]any{"schemaId": schemaID, "data": map[string]any{"label": "A"}, "geometry": map[string]any{"type": "GeometryCollection", "geometries": []any{}}}, "geometry"},
		{"empty geometry", map[string]any{"schemaId": schemaID, "data": map[string]any{"label": "A"}, "geometry": map[string]any{"type": "MultiPoint", "coordinates": []any{}}}, "geometry"},
		{"schema of another collection", map[string]any{"schemaId": otherSchema.Schema.ID, "data": map[string]any{"label": "A"}, "geometry": polygon}, "schemaId"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			status, res := s.do(http.MethodPost, annotationsPath, "bob@example.com", tt.body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, errors = %+v", status, res.Errors)
			}
			if diff := cmp.Diff([]string{tt.wantField}, errorFields(res.Errors)); diff != "" {
				t.Errorf("error fields (-want +got):\n%s", diff)
			}
		})
	}

	var annotationRes struct {
		Annotation model.Annotation `json:"annotation"`
	}
	s.mustDo(http.MethodPost, annotationsPath, "bob@example.com", map[string]any{
		"schemaId": schemaID,
		"data":     map[string]any{"label": "A"},
		"geometry": polygon,
	}, http.StatusCreated, &annotationRes)
	annotationPath := fmt.Sprintf("%s/%d", annotationsPath, annotationRes.Annotation.ID)

	var regionRes struct {
		Region [4]int `json:"region"`
		URL    string `json:"url"`
	}
	s.mustDo(http.MethodGet, annotationPath+"/region", "bob@example.com", nil, http.StatusOK, &regionRes)
	if diff := cmp.Diff([4]int{10, 20, 20, 30}, regionRes.Region); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}
	if want := "https://iiif.example.com/iiif/2/folio1r/10,20,20,30/!256,256/0/default.jpg"; regionRes.URL != want {
		t.Errorf("url = %q, want %q", regionRes.URL, want)
	}

	s.mustDo(http.MethodGet, annotationPath+"/region?size=max", "bob@example.com", nil, http.StatusOK, &regionRes)
	if !strings.HasSuffix(regionRes.URL, "/10,20,20,30/max/0/default.jpg") {
		t.Errorf("url with size = %q", regionRes.URL)
	}

	// Updating the data alone is still checked against the schema
	s.mustDo(http.MethodPatch, annotationPath, "bob@example.com", map[string]any{"data": map[string]any{"label": ""}}, http.StatusBadRequest, nil)
	s.mustDo(http.MethodPatch, annotationPath, "bob@example.com", map[string]any{"data": map[string]any{"label": "B"}}, http.StatusOK, &annotationRes)
	if string(annotationRes.Annotation.Data) != `{"label":"B"}` {
		t.Errorf("updated data = %s", annotationRes.Annotation.Data)
	}

	var list struct {
		Annotations []model.Annotation `json:"annotations"`
	}
	s.mustDo(http.MethodGet, annotationsPath, "alice@example.com", nil, http.StatusOK, &list)
	if len(list.Annotations) != 1 {
		t.Fatalf("annotations = %d, want 1", len(list.Annotations))
	}

	// Deleting the schema takes its annotations with it
	s.mustDo(http.MethodDelete, fmt.Sprintf("%s/schemas/%d", base, schemaID), "alice@example.com", nil, http.StatusOK, nil)
	s.mustDo(http.MethodGet, annotationsPath, "alice@example.com", nil, http.StatusOK, &list)
	if len(list.Annotations) != 0 {
		t.Errorf("annotations after schema delete = %d, want 0", len(list.Annotations))
	}
	s.mustDo(http.MethodGet, annotationPath, "alice@example.com", nil, http.StatusNotFound, nil)
}

func TestDeleteCollectionByOwner(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")

	id := s.createCollection("alice@example.com", "Manuscripts")
	path := fmt.Sprintf("/api/v1/collections/%d", id)
	s.mustDo(http.MethodPost, path+"/images", "alice@example.com", map[string]any{"name": "Folio 1r", "url": "https://iiif.example.com/iiif/2/folio1r"}, http.StatusCreated, nil)

	s.mustDo(http.MethodDelete, path, "alice@example.com", nil, http.StatusOK, nil)
	s.mustDo(http.MethodGet, path, "alice@example.com", nil, http.StatusNotFound, nil)
}

func TestUploadWithoutStorage(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")
	id := s.createCollection("alice@example.com", "Manuscripts")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/collections/%d/images", id), strings.NewReader("--x--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.Header.Set("Authorization", "Bearer "+s.tokens["alice@example.com"])

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestOIDCNotConfigured(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodGet, "/api/v1/oauth/oidc", "", nil)
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	var data struct {
		Status string `json:"status"`
		OIDC   bool   `json:"oidc"`
	}
	s.mustDo(http.MethodGet, "/", "", nil, http.StatusOK, &data)
	if data.Status != "ok" || data.OIDC {
		t.Errorf("health = %+v", data)
	}
}
