package enums

import "fmt"

// AppRole describes the allowed values for the `role` column on users.
type AppRole string

const (
	AppRoleSuperAdmin   AppRole = "super_admin"
	AppRoleCompanyAdmin AppRole = "company_admin"
	AppRoleManager      AppRole = "manager"
	AppRoleCashier      AppRole = "cashier"
	AppRoleUser         AppRole = "user"
)

var validAppRoles = []AppRole{
	AppRoleSuperAdmin,
	AppRoleCompanyAdmin,
	AppRoleManager,
	AppRoleCashier,
	AppRoleUser,
}

// IsValid reports whether the value matches the canonical role enum.
func (a AppRole) IsValid() bool {
	for _, candidate := range validAppRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAppRole converts the raw string to AppRole.
func ParseAppRole(value string) (AppRole, error) {
	for _, candidate := range validAppRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app role %q", value)
}
