package constant

import "fmt"

type CollectionRole int

const (
	CollectionRoleOwner CollectionRole = iota
	CollectionRoleMember
	CollectionRoleNone
)

func (r CollectionRole) String() string {
	switch r {
	case CollectionRoleOwner:
		return "owner"
	case CollectionRoleMember:
		return "member"
	default:
		return "none"
	}
}

func (r CollectionRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *CollectionRole) UnmarshalText(text []byte) error {
	switch string(text) {
	case "owner":
		*r = CollectionRoleOwner
	case "member":
		*r = CollectionRoleMember
	case "none":
		*r = CollectionRoleNone
	default:
		return fmt.Errorf("unknown collection role %q", text)
	}
	return nil
}

type CollectionPermission string

const (
	CollectionRead   CollectionPermission = "collection:read"
	CollectionUpdate CollectionPermission = "collection:update"
	CollectionDelete CollectionPermission = "collection:delete"

	MemberAdd    CollectionPermission = "member:add"
	MemberRemove CollectionPermission = "member:remove"

	SchemaWrite     CollectionPermission = "schema:write"
	ImageWrite      CollectionPermission = "image:write"
	AnnotationWrite CollectionPermission = "annotation:write"
)
