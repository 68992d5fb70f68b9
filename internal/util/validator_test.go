package util

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/go-cmp/cmp"
)

func TestCustomValidators(t *testing.T) {
	if err := RegisterCustomValidators(); err != nil {
		t.Fatal(err)
	}

	type request struct {
		Name  string `binding:"required,cmin=1,cmax=5"`
		Label string `binding:"omitempty,strNotEmpty,cmax=3"`
	}

	tests := []struct {
		name string
		req  request
		want []ApiError
	}{
		{"valid", request{Name: "Folio"}, []ApiError{}},
		{"surrounding spaces are not counted", request{Name: "  Folio  ", Label: " ab "}, []ApiError{}},
		{"whitespace only", request{Name: "   "}, []ApiError{
			{Field: "Name", Message: "Name must be at least 1 non-whitespace characters"},
		}},
		{"too long", request{Name: "Folio 1r"}, []ApiError{
			{Field: "Name", Message: "Name must be at most 5 non-whitespace characters"},
		}},
		{"blank label", request{Name: "a", Label: "  "}, []ApiError{
			{Field: "Label", Message: "Label must not be empty or contain only whitespace charaters"},
		}},
		{"long label", request{Name: "a", Label: "abcd"}, []ApiError{
			{Field: "Label", Message: "Label must be at most 3 non-whitespace characters"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateErrorMessages(binding.Validator.ValidateStruct(tt.req))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("validation mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
