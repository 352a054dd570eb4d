package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ventaflow/ventaflow-backend/api/controllers"
	"github.com/ventaflow/ventaflow-backend/api/middleware"
	"github.com/ventaflow/ventaflow-backend/internal/cart"
	"github.com/ventaflow/ventaflow-backend/internal/catalog"
	"github.com/ventaflow/ventaflow-backend/internal/customers"
	"github.com/ventaflow/ventaflow-backend/internal/employees"
	"github.com/ventaflow/ventaflow-backend/internal/expenses"
	"github.com/ventaflow/ventaflow-backend/internal/inventory"
	"github.com/ventaflow/ventaflow-backend/internal/notifications"
	"github.com/ventaflow/ventaflow-backend/internal/permissions"
	"github.com/ventaflow/ventaflow-backend/internal/sales"
	"github.com/ventaflow/ventaflow-backend/internal/suppliers"
	"github.com/ventaflow/ventaflow-backend/pkg/config"
	"github.com/ventaflow/ventaflow-backend/pkg/db"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
	pkgredis "github.com/ventaflow/ventaflow-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Carts         *cart.Store
	Catalog       catalog.Service
	Sales         sales.Service
	Inventory     inventory.Service
	Customers     customers.Service
	Suppliers     suppliers.Service
	Expenses      expenses.Service
	Employees     employees.Service
	Notifications notifications.Service
	Permissions   permissions.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	taxRate := cfg.POS.TaxRate()
	perms := svcs.Permissions

	// A nil *Client boxed into the middleware interfaces would dodge
	// their nil checks, so redis-backed pieces are wired only when the
	// client exists.
	var redisPinger pkgredis.Pinger
	passthrough := func(next http.Handler) http.Handler { return next }
	rateLimitAPI := passthrough
	rateLimitCheckout := passthrough
	idempotency := passthrough
	if redisClient != nil {
		redisPinger = redisClient
		rateLimitAPI = middleware.RateLimit(middleware.NewRateLimitPolicy("api", time.Minute, 300), redisClient, logg)
		rateLimitCheckout = middleware.RateLimit(middleware.NewRateLimitPolicy("checkout", time.Minute, 30), redisClient, logg)
		idempotency = middleware.Idempotency(redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(rateLimitAPI)
		r.Use(idempotency)

		r.Route("/pos", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModulePOS, enums.PermissionActionView, logg)).
				Get("/catalog", controllers.POSCatalog(svcs.Catalog, logg))
			r.With(middleware.RequireModule(perms, enums.AppModulePOS, enums.PermissionActionView, logg)).
				Get("/catalog/categories", controllers.POSCatalogCategories(svcs.Catalog, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Use(middleware.RequireModule(perms, enums.AppModulePOS, enums.PermissionActionCreate, logg))
				r.Get("/", controllers.CartFetch(svcs.Carts, taxRate, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Carts, svcs.Catalog, taxRate, logg))
				r.Put("/items/{productID}", controllers.CartSetQuantity(svcs.Carts, taxRate, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(svcs.Carts, taxRate, logg))
				r.Delete("/", controllers.CartClear(svcs.Carts, logg))
			})

			r.With(
				middleware.RequireModule(perms, enums.AppModulePOS, enums.PermissionActionCreate, logg),
				rateLimitCheckout,
			).Post("/checkout", controllers.Checkout(svcs.Sales, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModuleSales, enums.PermissionActionView, logg)).
				Get("/", controllers.ListSales(svcs.Sales, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSales, enums.PermissionActionView, logg)).
				Get("/stats", controllers.SalesStats(svcs.Sales, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSales, enums.PermissionActionView, logg)).
				Get("/{saleID}", controllers.GetSale(svcs.Sales, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSales, enums.PermissionActionEdit, logg)).
				Post("/{saleID}/refund", controllers.RefundSale(svcs.Sales, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModuleInventory, enums.PermissionActionView, logg)).
				Get("/", controllers.ListProducts(svcs.Inventory, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleInventory, enums.PermissionActionCreate, logg)).
				Post("/", controllers.CreateProduct(svcs.Inventory, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleInventory, enums.PermissionActionView, logg)).
				Get("/{productID}", controllers.GetProduct(svcs.Inventory, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleInventory, enums.PermissionActionEdit, logg)).
				Patch("/{productID}", controllers.UpdateProduct(svcs.Inventory, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleInventory, enums.PermissionActionDelete, logg)).
				Delete("/{productID}", controllers.DeleteProduct(svcs.Inventory, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleInventory, enums.PermissionActionEdit, logg)).
				Post("/{productID}/restock", controllers.RestockProduct(svcs.Inventory, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModuleCustomers, enums.PermissionActionView, logg)).
				Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleCustomers, enums.PermissionActionCreate, logg)).
				Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleCustomers, enums.PermissionActionView, logg)).
				Get("/{customerID}", controllers.GetCustomer(svcs.Customers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleCustomers, enums.PermissionActionEdit, logg)).
				Patch("/{customerID}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleCustomers, enums.PermissionActionDelete, logg)).
				Delete("/{customerID}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModuleSuppliers, enums.PermissionActionView, logg)).
				Get("/", controllers.ListSuppliers(svcs.Suppliers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSuppliers, enums.PermissionActionCreate, logg)).
				Post("/", controllers.CreateSupplier(svcs.Suppliers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSuppliers, enums.PermissionActionView, logg)).
				Get("/{supplierID}", controllers.GetSupplier(svcs.Suppliers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSuppliers, enums.PermissionActionEdit, logg)).
				Patch("/{supplierID}", controllers.UpdateSupplier(svcs.Suppliers, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleSuppliers, enums.PermissionActionDelete, logg)).
				Delete("/{supplierID}", controllers.DeleteSupplier(svcs.Suppliers, logg))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModuleExpenses, enums.PermissionActionView, logg)).
				Get("/", controllers.ListExpenses(svcs.Expenses, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleExpenses, enums.PermissionActionView, logg)).
				Get("/summary", controllers.ExpenseSummary(svcs.Expenses, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleExpenses, enums.PermissionActionCreate, logg)).
				Post("/", controllers.CreateExpense(svcs.Expenses, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleExpenses, enums.PermissionActionView, logg)).
				Get("/{expenseID}", controllers.GetExpense(svcs.Expenses, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleExpenses, enums.PermissionActionDelete, logg)).
				Delete("/{expenseID}", controllers.DeleteExpense(svcs.Expenses, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(middleware.RequireModule(perms, enums.AppModuleEmployees, enums.PermissionActionView, logg)).
				Get("/", controllers.ListEmployees(svcs.Employees, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleEmployees, enums.PermissionActionCreate, logg)).
				Post("/", controllers.CreateEmployee(svcs.Employees, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleEmployees, enums.PermissionActionView, logg)).
				Get("/{employeeID}", controllers.GetEmployee(svcs.Employees, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleEmployees, enums.PermissionActionEdit, logg)).
				Patch("/{employeeID}", controllers.UpdateEmployee(svcs.Employees, logg))
			r.With(middleware.RequireModule(perms, enums.AppModuleEmployees, enums.PermissionActionDelete, logg)).
				Delete("/{employeeID}", controllers.DeactivateEmployee(svcs.Employees, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.RequireModule(perms, enums.AppModuleNotifications, enums.PermissionActionView, logg))
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Get("/me/modules", controllers.MyModules(perms, logg))

		r.Route("/permissions", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Post("/", controllers.GrantPermission(perms, logg))
			r.Get("/users/{userID}", controllers.ListUserPermissions(perms, logg))
			r.Delete("/users/{userID}/modules/{module}", controllers.RevokePermission(perms, logg))
		})
	})

	return r
}
