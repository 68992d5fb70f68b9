package constant

import (
	"encoding/json"
	"testing"
)

func TestCollectionRoleJSON(t *testing.T) {
	for _, role := range []CollectionRole{CollectionRoleOwner, CollectionRoleMember, CollectionRoleNone} {
		raw, err := json.Marshal(role)
		if err != nil {
			t.Fatal(err)
		}

		var got CollectionRole
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", raw, err)
		}
		if got != role {
			t.Errorf("round trip of %s = %s", role, got)
		}
	}

	var r CollectionRole
	if err := json.Unmarshal([]byte(`"admin"`), &r); err == nil {
		t.Error("expected error for unknown role")
	}
}
