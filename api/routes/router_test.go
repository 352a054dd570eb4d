package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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
	pkgAuth "github.com/ventaflow/ventaflow-backend/pkg/auth"
	"github.com/ventaflow/ventaflow-backend/pkg/config"
	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	"github.com/ventaflow/ventaflow-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListSellable(ctx context.Context, companyID uuid.UUID, filter catalog.ListFilter) ([]catalog.ItemDTO, error) {
	return []catalog.ItemDTO{}, nil
}

func (stubCatalogService) GetSellable(ctx context.Context, companyID, productID uuid.UUID) (*catalog.ItemDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListCategories(ctx context.Context, companyID uuid.UUID) ([]string, error) {
	panic("unimplemented")
}

type stubSalesService struct{}

func (stubSalesService) Checkout(ctx context.Context, actor sales.Actor, input sales.CheckoutInput) (*sales.SaleDTO, error) {
	panic("unimplemented")
}

func (stubSalesService) GetSale(ctx context.Context, companyID, saleID uuid.UUID) (*sales.SaleDTO, error) {
	panic("unimplemented")
}

func (stubSalesService) ListRecent(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*sales.SaleListResult, error) {
	panic("unimplemented")
}

func (stubSalesService) Stats(ctx context.Context, companyID uuid.UUID, from, to time.Time, loc *time.Location) (*sales.StatsDTO, error) {
	panic("unimplemented")
}

func (stubSalesService) Refund(ctx context.Context, companyID, saleID uuid.UUID) (*sales.SaleDTO, error) {
	panic("unimplemented")
}

type stubInventoryService struct{}

func (stubInventoryService) CreateProduct(ctx context.Context, companyID uuid.UUID, input inventory.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) UpdateProduct(ctx context.Context, companyID, productID uuid.UUID, input inventory.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) DeleteProduct(ctx context.Context, companyID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubInventoryService) GetProduct(ctx context.Context, companyID, productID uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListProducts(ctx context.Context, companyID uuid.UUID) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubInventoryService) ListLowStock(ctx context.Context, companyID uuid.UUID) ([]models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) Restock(ctx context.Context, companyID, productID uuid.UUID, qty int) (*models.Product, error) {
	panic("unimplemented")
}

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, companyID uuid.UUID, input customers.CreateInput) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Update(ctx context.Context, companyID, customerID uuid.UUID, input customers.UpdateInput) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Delete(ctx context.Context, companyID, customerID uuid.UUID) error {
	panic("unimplemented")
}

func (stubCustomersService) Get(ctx context.Context, companyID, customerID uuid.UUID) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) List(ctx context.Context, companyID uuid.UUID, search string) ([]models.Customer, error) {
	panic("unimplemented")
}

type stubSuppliersService struct{}

func (stubSuppliersService) Create(ctx context.Context, companyID uuid.UUID, input suppliers.CreateInput) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubSuppliersService) Update(ctx context.Context, companyID, supplierID uuid.UUID, input suppliers.UpdateInput) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubSuppliersService) Delete(ctx context.Context, companyID, supplierID uuid.UUID) error {
	panic("unimplemented")
}

func (stubSuppliersService) Get(ctx context.Context, companyID, supplierID uuid.UUID) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubSuppliersService) List(ctx context.Context, companyID uuid.UUID) ([]models.Supplier, error) {
	panic("unimplemented")
}

type stubExpensesService struct{}

func (stubExpensesService) Create(ctx context.Context, companyID, createdBy uuid.UUID, input expenses.CreateInput) (*models.Expense, error) {
	panic("unimplemented")
}

func (stubExpensesService) Delete(ctx context.Context, companyID, expenseID uuid.UUID) error {
	panic("unimplemented")
}

func (stubExpensesService) Get(ctx context.Context, companyID, expenseID uuid.UUID) (*models.Expense, error) {
	panic("unimplemented")
}

func (stubExpensesService) ListBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]models.Expense, error) {
	panic("unimplemented")
}

func (stubExpensesService) TotalBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	panic("unimplemented")
}

func (stubExpensesService) SummaryByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]expenses.CategoryTotal, error) {
	panic("unimplemented")
}

type stubEmployeesService struct{}

func (stubEmployeesService) Create(ctx context.Context, companyID uuid.UUID, input employees.CreateInput) (*models.Employee, error) {
	panic("unimplemented")
}

func (stubEmployeesService) Update(ctx context.Context, companyID, employeeID uuid.UUID, input employees.UpdateInput) (*models.Employee, error) {
	panic("unimplemented")
}

func (stubEmployeesService) Deactivate(ctx context.Context, companyID, employeeID uuid.UUID) error {
	panic("unimplemented")
}

func (stubEmployeesService) Get(ctx context.Context, companyID, employeeID uuid.UUID) (*models.Employee, error) {
	panic("unimplemented")
}

func (stubEmployeesService) List(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]models.Employee, error) {
	panic("unimplemented")
}

type stubNotificationsService struct{}

func (stubNotificationsService) Notify(ctx context.Context, input notifications.NotifyInput) (*models.Notification, error) {
	panic("unimplemented")
}

func (stubNotificationsService) ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	panic("unimplemented")
}

func (stubNotificationsService) UnreadCount(ctx context.Context, companyID, userID uuid.UUID) (int64, error) {
	panic("unimplemented")
}

func (stubNotificationsService) MarkRead(ctx context.Context, companyID, userID, notificationID uuid.UUID) error {
	panic("unimplemented")
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) (int64, error) {
	panic("unimplemented")
}

// stubPermissionsService answers checks from the role defaults only.
type stubPermissionsService struct{}

func (stubPermissionsService) Can(ctx context.Context, subject permissions.Subject, module enums.AppModule, action enums.PermissionAction) (bool, error) {
	return permissions.DefaultCan(subject.Role, module, action), nil
}

func (stubPermissionsService) Grant(ctx context.Context, actor permissions.Subject, input permissions.GrantInput) (*models.ModulePermission, error) {
	panic("unimplemented")
}

func (stubPermissionsService) Revoke(ctx context.Context, actor permissions.Subject, userID uuid.UUID, module enums.AppModule) error {
	panic("unimplemented")
}

func (stubPermissionsService) ListForUser(ctx context.Context, companyID, userID uuid.UUID) ([]models.ModulePermission, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
		POS: config.POSConfig{TaxRatePercent: 10},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	return NewRouter(testConfig(), nil, stubPinger{}, nil, Services{
		Carts:         cart.NewStore(),
		Catalog:       stubCatalogService{},
		Sales:         stubSalesService{},
		Inventory:     stubInventoryService{},
		Customers:     stubCustomersService{},
		Suppliers:     stubSuppliersService{},
		Expenses:      stubExpensesService{},
		Employees:     stubEmployeesService{},
		Notifications: stubNotificationsService{},
		Permissions:   stubPermissionsService{},
	})
}

func mintToken(t *testing.T, role enums.AppRole) string {
	t.Helper()

	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		Role:      role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pos/catalog", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCashierCanReadCatalog(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pos/catalog", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.AppRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCashierCannotManageInventory(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.AppRoleCashier))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestManagerCanListProducts(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.AppRoleManager))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPermissionRoutesRequireAdmin(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/permissions/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.AppRoleManager))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
