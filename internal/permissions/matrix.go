package permissions

import "github.com/ventaflow/ventaflow-backend/pkg/enums"

// grant is a compact permission tuple for one module.
type grant struct {
	view, create, edit, del bool
}

var (
	fullGrant     = grant{view: true, create: true, edit: true, del: true}
	readWrite     = grant{view: true, create: true, edit: true}
	readCreate    = grant{view: true, create: true}
	readOnly      = grant{view: true}
	defaultGrants = map[enums.AppRole]map[enums.AppModule]grant{
		enums.AppRoleManager: {
			enums.AppModuleDashboard:     readOnly,
			enums.AppModulePOS:           readWrite,
			enums.AppModuleInventory:     fullGrant,
			enums.AppModuleSales:         readOnly,
			enums.AppModuleCustomers:     readWrite,
			enums.AppModuleSuppliers:     readWrite,
			enums.AppModuleExpenses:      readWrite,
			enums.AppModuleEmployees:     readOnly,
			enums.AppModuleNotifications: readOnly,
		},
		enums.AppRoleCashier: {
			enums.AppModuleDashboard:     readOnly,
			enums.AppModulePOS:           readCreate,
			enums.AppModuleSales:         readOnly,
			enums.AppModuleCustomers:     readOnly,
			enums.AppModuleNotifications: readOnly,
		},
		enums.AppRoleUser: {
			enums.AppModuleDashboard:     readOnly,
			enums.AppModuleNotifications: readOnly,
		},
	}
)

// DefaultCan answers the role-based permission question without any
// per-user override. It is a pure function of its inputs.
func DefaultCan(role enums.AppRole, module enums.AppModule, action enums.PermissionAction) bool {
	if !role.IsValid() || !module.IsValid() || !action.IsValid() {
		return false
	}

	// Admin roles hold every permission in their tenant.
	if role == enums.AppRoleSuperAdmin || role == enums.AppRoleCompanyAdmin {
		return true
	}

	g, ok := defaultGrants[role][module]
	if !ok {
		return false
	}
	switch action {
	case enums.PermissionActionView:
		return g.view
	case enums.PermissionActionCreate:
		return g.create
	case enums.PermissionActionEdit:
		return g.edit
	case enums.PermissionActionDelete:
		return g.del
	default:
		return false
	}
}
