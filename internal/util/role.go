package util

import (
	"slices"

	"github.com/SeakMengs/Annotator/internal/constant"
)

var rolePermissions = map[constant.CollectionRole][]constant.CollectionPermission{
	constant.CollectionRoleOwner: {
		constant.CollectionRead,
		constant.CollectionUpdate,
		constant.CollectionDelete,
		constant.MemberAdd,
		constant.MemberRemove,
		constant.SchemaWrite,
		constant.ImageWrite,
		constant.AnnotationWrite,
	},
	constant.CollectionRoleMember: {
		constant.CollectionRead,
		constant.CollectionUpdate,
		constant.SchemaWrite,
		constant.ImageWrite,
		constant.AnnotationWrite,
	},
	constant.CollectionRoleNone: {},
}

// checks if all permissions are granted by at least one of the roles.
func HasPermission(roles []constant.CollectionRole, permissions []constant.CollectionPermission) bool {
	for _, permission := range permissions {
		hasPermission := false
		for _, role := range roles {
			if slices.Contains(rolePermissions[role], permission) {
				hasPermission = true
				break
			}
		}
		if !hasPermission {
			return false
		}
	}
	return true
}
