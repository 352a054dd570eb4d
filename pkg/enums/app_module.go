package enums

import "fmt"

// AppModule identifies a gated application area. Values match the
// `module` column in module_permissions.
type AppModule string

const (
	AppModuleDashboard     AppModule = "dashboard"
	AppModulePOS           AppModule = "pos"
	AppModuleInventory     AppModule = "inventory"
	AppModuleSales         AppModule = "sales"
	AppModuleCustomers     AppModule = "customers"
	AppModuleSuppliers     AppModule = "suppliers"
	AppModuleExpenses      AppModule = "expenses"
	AppModuleEmployees     AppModule = "employees"
	AppModuleNotifications AppModule = "notifications"
	AppModuleSettings      AppModule = "settings"
)

var validAppModules = []AppModule{
	AppModuleDashboard,
	AppModulePOS,
	AppModuleInventory,
	AppModuleSales,
	AppModuleCustomers,
	AppModuleSuppliers,
	AppModuleExpenses,
	AppModuleEmployees,
	AppModuleNotifications,
	AppModuleSettings,
}

// AppModules returns the canonical modules in display order.
func AppModules() []AppModule {
	out := make([]AppModule, len(validAppModules))
	copy(out, validAppModules)
	return out
}

// IsValid reports whether the value matches the canonical module enum.
func (m AppModule) IsValid() bool {
	for _, candidate := range validAppModules {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseAppModule converts the raw string to AppModule.
func ParseAppModule(value string) (AppModule, error) {
	for _, candidate := range validAppModules {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid app module %q", value)
}
