package geometry

import (
	"errors"
	"testing"

	"github.com/SeakMengs/Annotator/internal/apperror"
	"github.com/paulmach/orb"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantErr  bool
	}{
		{"point", `{"type":"Point","coordinates":[1,2]}`, "Point", false},
		{"polygon", `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,-10],[0,0]]]}`, "Polygon", false},
		{"multi polygon", `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}`, "MultiPolygon", false},
		{"line string", `{"type":"LineString","coordinates":[[0,0],[3,4]]}`, "LineString", false},
		{"empty polygon", `{"type":"Polygon","coordinates":[]}`, "", true},
		{"empty multi point", `{"type":"MultiPoint","coordinates":[]}`, "", true},
		{"collection not supported", `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}]}`, "", true},
		{"feature is not a geometry", `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}}`, "", true},
		{"garbage", `not json`, "", true},
		{"null", `null`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrBadRequest) {
					t.Errorf("Parse() error = %v, want a bad request", err)
				}
				return
			}
			if got := g.GeoJSONType(); got != tt.wantType {
				t.Errorf("Parse() type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestParseKeepsCoordinates(t *testing.T) {
	g, err := Parse([]byte(`{"type":"LineString","coordinates":[[1.5,-2],[3,-4]]}`))
	if err != nil {
		t.Fatal(err)
	}

	ls, ok := g.(orb.LineString)
	if !ok {
		t.Fatalf("Parse() returned %T", g)
	}
	if ls[0] != (orb.Point{1.5, -2}) || ls[1] != (orb.Point{3, -4}) {
		t.Errorf("Parse() coordinates = %v", ls)
	}
}
