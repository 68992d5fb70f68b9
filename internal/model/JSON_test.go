package model

import (
	"encoding/json"
	"testing"
)

func TestJSONScanAndValue(t *testing.T) {
	var j JSON
	if err := j.Scan([]byte(`{"a":1}`)); err != nil {
		t.Fatalf("Scan([]byte) error = %v", err)
	}
	if string(j) != `{"a":1}` {
		t.Errorf("Scan([]byte) = %s", j)
	}

	if err := j.Scan(`[1,2]`); err != nil {
		t.Fatalf("Scan(string) error = %v", err)
	}
	v, err := j.Value()
	if err != nil || v != `[1,2]` {
		t.Errorf("Value() = %v, %v", v, err)
	}

	if err := j.Scan(nil); err != nil || j != nil {
		t.Errorf("Scan(nil) = %v, %v", j, err)
	}
	if v, _ := j.Value(); v != nil {
		t.Errorf("Value() of empty JSON = %v, want nil", v)
	}

	if err := j.Scan(42); err == nil {
		t.Errorf("Scan(int) expected error")
	}
}

func TestJSONEmbedsRaw(t *testing.T) {
	type payload struct {
		Data JSON `json:"data"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"data":{"label":"tree"}}`), &p); err != nil {
		t.Fatal(err)
	}
	if string(p.Data) != `{"label":"tree"}` {
		t.Errorf("UnmarshalJSON kept %s", p.Data)
	}

	out, err := json.Marshal(payload{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"data":null}` {
		t.Errorf("Marshal(empty) = %s", out)
	}
}

func TestJSONIsNull(t *testing.T) {
	tests := map[string]bool{
		"":          true,
		"null":      true,
		"  null \n": true,
		"{}":        false,
		"0":         false,
	}
	for in, want := range tests {
		if got := JSON(in).IsNull(); got != want {
			t.Errorf("JSON(%q).IsNull() = %v, want %v", in, got, want)
		}
	}
}
