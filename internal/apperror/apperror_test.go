package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("load collection: %w", NotFound("collection"))

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected wrapped NotFound to match ErrNotFound")
	}
	if errors.Is(err, ErrForbidden) {
		t.Errorf("NotFound must not match ErrForbidden")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("image"), http.StatusNotFound},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"bad request", BadRequest("email", "invalid email"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("missing token"), http.StatusUnauthorized},
		{"wrapped", fmt.Errorf("ctx: %w", Forbidden("nope")), http.StatusForbidden},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	inner := errors.New("schema mismatch")
	err := Wrap(KindBadRequest, "data", "invalid annotation data", inner)

	if got, want := err.Error(), "invalid annotation data: schema mismatch"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, inner) {
		t.Errorf("expected Unwrap to expose the inner error")
	}
	if got := (&Error{Kind: KindForbidden}).Error(); got != "forbidden" {
		t.Errorf("Error() without message = %q", got)
	}
}
