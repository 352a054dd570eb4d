package enums

import "fmt"

// PermissionAction is the operation a permission grant covers.
type PermissionAction string

const (
	PermissionActionView   PermissionAction = "view"
	PermissionActionCreate PermissionAction = "create"
	PermissionActionEdit   PermissionAction = "edit"
	PermissionActionDelete PermissionAction = "delete"
)

var validPermissionActions = []PermissionAction{
	PermissionActionView,
	PermissionActionCreate,
	PermissionActionEdit,
	PermissionActionDelete,
}

// IsValid reports whether the value matches the canonical action enum.
func (p PermissionAction) IsValid() bool {
	for _, candidate := range validPermissionActions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermissionAction converts the raw string to PermissionAction.
func ParsePermissionAction(value string) (PermissionAction, error) {
	for _, candidate := range validPermissionActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission action %q", value)
}
