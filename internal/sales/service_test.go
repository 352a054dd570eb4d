package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/internal/cart"
	"github.com/ventaflow/ventaflow-backend/internal/notifications"
	"github.com/ventaflow/ventaflow-backend/pkg/config"
	"github.com/ventaflow/ventaflow-backend/pkg/db"
	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:sales_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
		&models.SaleCounter{},
		&models.Customer{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type testEnv struct {
	conn    *gorm.DB
	carts   *cart.Store
	svc     Service
	company uuid.UUID
	user    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := newTestDB(t)
	carts := cart.NewStore()
	svc, err := NewService(carts, NewRepository(conn), db.NewFromConn(conn), config.POSConfig{
		TaxRatePercent:  10,
		CheckoutTimeout: 5 * time.Second,
		HistoryLimit:    50,
	}, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{
		conn:    conn,
		carts:   carts,
		svc:     svc,
		company: uuid.New(),
		user:    uuid.New(),
	}
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, qty int) models.Product {
	t.Helper()
	product := models.Product{
		ID:        uuid.New(),
		CompanyID: e.company,
		SKU:       "SKU-" + uuid.NewString()[:8],
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
		IsActive:  true,
	}
	if err := e.conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (e *testEnv) addToCart(t *testing.T, product models.Product, times int) {
	t.Helper()
	session := e.carts.Get(e.company, e.user)
	for i := 0; i < times; i++ {
		if err := session.Add(cart.Item{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			UnitPrice: product.Price,
			Available: product.Quantity,
		}); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}
}

func (e *testEnv) actor() Actor {
	return Actor{UserID: e.user, CompanyID: e.company}
}

func TestCheckoutCommitsSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	notebook := env.seedProduct(t, "Notebook", "12.75", 10)
	pen := env.seedProduct(t, "Pen", "12.75", 10)
	env.addToCart(t, notebook, 1)
	env.addToCart(t, pen, 1)

	buyerName := "Walk-in Joe"
	buyerPhone := "+1-555-0100"
	sale, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
		Discount:      decimal.Zero,
		CustomerName:  &buyerName,
		CustomerPhone: &buyerPhone,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if sale.SaleNumber != "SALE-000001" {
		t.Fatalf("sale number = %s, want SALE-000001", sale.SaleNumber)
	}
	if sale.CustomerName == nil || *sale.CustomerName != buyerName {
		t.Fatalf("expected buyer name snapshot, got %v", sale.CustomerName)
	}
	if sale.CustomerPhone == nil || *sale.CustomerPhone != buyerPhone {
		t.Fatalf("expected buyer phone snapshot, got %v", sale.CustomerPhone)
	}
	if sale.Subtotal.String() != "25.5" || sale.Tax.String() != "2.55" || sale.Total.String() != "28.05" {
		t.Fatalf("totals mismatch: subtotal=%s tax=%s total=%s", sale.Subtotal, sale.Tax, sale.Total)
	}
	if sale.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("cash sales commit as paid, got %s", sale.PaymentStatus)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sale.Items))
	}
	for _, item := range sale.Items {
		if item.ProductSKU == "" {
			t.Fatalf("expected SKU snapshot on item %s", item.ProductName)
		}
	}

	// Stock decremented at commit.
	var got models.Product
	if err := env.conn.First(&got, "id = ?", notebook.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.Quantity != 9 {
		t.Fatalf("expected quantity 9, got %d", got.Quantity)
	}

	// Cart reset after commit.
	if !env.carts.Get(env.company, env.user).IsEmpty() {
		t.Fatal("cart should be empty after checkout")
	}
}

func TestCheckoutPostsNotification(t *testing.T) {
	env := newTestEnv(t)

	notifier, err := notifications.NewService(env.conn)
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}
	svc, err := NewService(env.carts, NewRepository(env.conn), db.NewFromConn(env.conn), config.POSConfig{
		TaxRatePercent: 10,
	}, nil, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	product := env.seedProduct(t, "Mug", "8.00", 3)
	env.addToCart(t, product, 1)

	sale, err := svc.Checkout(context.Background(), env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
		Discount:      decimal.Zero,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	rows, err := notifier.ListForUser(context.Background(), env.company, env.user, false, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rows))
	}
	if rows[0].Type != enums.NotificationTypeSuccess {
		t.Fatalf("unexpected type %s", rows[0].Type)
	}
	if rows[0].Link == nil || *rows[0].Link != "/sales/"+sale.ID.String() {
		t.Fatalf("unexpected link %v", rows[0].Link)
	}

	// Draining a product to its minimum adds a low stock warning.
	lastOne := env.seedProduct(t, "Last Mug", "8.00", 1)
	env.addToCart(t, lastOne, 1)
	if _, err := svc.Checkout(context.Background(), env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
		Discount:      decimal.Zero,
	}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	rows, err = notifier.ListForUser(context.Background(), env.company, env.user, false, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	warnings := 0
	for _, row := range rows {
		if row.Type == enums.NotificationTypeWarning {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected 1 low stock warning, got %d of %d rows", warnings, len(rows))
	}
}

func TestCheckoutCardIsPending(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Latte", "4.00", 5)
	env.addToCart(t, product, 1)

	sale, err := env.svc.Checkout(context.Background(), env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCard,
		Discount:      decimal.Zero,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if sale.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("card sales start pending, got %s", sale.PaymentStatus)
	}
}

func TestCheckoutStockConflictRollsBackEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Scarce", "10.00", 2)
	env.addToCart(t, product, 2)

	// Another terminal sold the stock after this cart snapshot.
	if err := env.conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("quantity", 1).Error; err != nil {
		t.Fatalf("drain stock: %v", err)
	}

	_, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
		Discount:      decimal.Zero,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStockConflict {
		t.Fatalf("expected stock conflict, got %v", err)
	}

	// No orphaned header, no items, counter untouched, stock untouched.
	var saleCount, itemCount int64
	env.conn.Model(&models.Sale{}).Count(&saleCount)
	env.conn.Model(&models.SaleItem{}).Count(&itemCount)
	if saleCount != 0 || itemCount != 0 {
		t.Fatalf("conflict must leave no rows: sales=%d items=%d", saleCount, itemCount)
	}

	var counterCount int64
	env.conn.Model(&models.SaleCounter{}).Count(&counterCount)
	if counterCount != 0 {
		t.Fatal("counter advance should roll back with the sale")
	}

	var got models.Product
	if err := env.conn.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.Quantity != 1 {
		t.Fatalf("expected quantity 1 after rollback, got %d", got.Quantity)
	}

	// Cart survives for retry.
	if env.carts.Get(env.company, env.user).IsEmpty() {
		t.Fatal("cart should survive a failed checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Checkout(context.Background(), env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutInvalidInputs(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "Item", "5.00", 5)
	env.addToCart(t, product, 1)

	_, err := env.svc.Checkout(context.Background(), env.actor(), CheckoutInput{
		PaymentMethod: "check",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for payment method, got %v", err)
	}

	_, err = env.svc.Checkout(context.Background(), env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
		Discount:      decimal.NewFromInt(-1),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for discount, got %v", err)
	}
}

func TestCheckoutSequentialNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := env.seedProduct(t, "Item", "5.00", 50)

	for i, want := range []string{"SALE-000001", "SALE-000002", "SALE-000003"} {
		env.addToCart(t, product, 1)
		sale, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{
			PaymentMethod: enums.PaymentMethodCash,
		})
		if err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
		if sale.SaleNumber != want {
			t.Fatalf("checkout %d: number = %s, want %s", i, sale.SaleNumber, want)
		}
	}
}

func TestInflightGuardRejectsSecondCheckout(t *testing.T) {
	guard := newInflightGuard()
	key := sessionKey{CompanyID: uuid.New(), UserID: uuid.New()}

	if !guard.begin(key) {
		t.Fatal("first begin should succeed")
	}
	if guard.begin(key) {
		t.Fatal("second begin for the same session must fail")
	}
	guard.end(key)
	if !guard.begin(key) {
		t.Fatal("begin after end should succeed")
	}
}

func TestCheckoutUpdatesCustomerTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := models.Customer{
		ID:             uuid.New(),
		CompanyID:      env.company,
		Name:           "Walk-in Regular",
		TotalPurchases: decimal.Zero,
	}
	if err := env.conn.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	product := env.seedProduct(t, "Item", "10.00", 5)
	env.addToCart(t, product, 1)

	sale, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{
		PaymentMethod: enums.PaymentMethodCash,
		CustomerID:    &customer.ID,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	var got models.Customer
	if err := env.conn.First(&got, "id = ?", customer.ID).Error; err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if !got.TotalPurchases.Equal(sale.Total) {
		t.Fatalf("customer totals = %s, want %s", got.TotalPurchases, sale.Total)
	}
	if got.LastPurchase == nil {
		t.Fatal("last purchase timestamp should be set")
	}
}

func TestListRecentPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sale := models.Sale{
			ID:            uuid.New(),
			CompanyID:     env.company,
			SaleNumber:    uuid.NewString()[:12],
			Subtotal:      decimal.NewFromInt(10),
			Total:         decimal.NewFromInt(11),
			PaymentMethod: enums.PaymentMethodCash,
			PaymentStatus: enums.PaymentStatusPaid,
			CreatedBy:     env.user,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := env.conn.Create(&sale).Error; err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	page, err := env.svc.ListRecent(ctx, env.company, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(page.Sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(page.Sales))
	}
	if page.NextCursor == nil {
		t.Fatal("expected next cursor")
	}
	if !page.Sales[0].CreatedAt.After(page.Sales[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	rest, err := env.svc.ListRecent(ctx, env.company, pagination.Params{Limit: 2, Cursor: *page.NextCursor})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest.Sales) != 1 {
		t.Fatalf("expected 1 sale on second page, got %d", len(rest.Sales))
	}
	if rest.NextCursor != nil {
		t.Fatal("expected no cursor on last page")
	}
}

func TestStatsAggregatesWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	seedSale := func(total, tax string, method enums.PaymentMethod, status enums.PaymentStatus, at time.Time, itemQty int) {
		sale := models.Sale{
			ID:            uuid.New(),
			CompanyID:     env.company,
			SaleNumber:    uuid.NewString()[:12],
			Subtotal:      decimal.RequireFromString(total),
			Tax:           decimal.RequireFromString(tax),
			Total:         decimal.RequireFromString(total),
			PaymentMethod: method,
			PaymentStatus: status,
			CreatedBy:     env.user,
			CreatedAt:     at,
			Items: []models.SaleItem{{
				ID:          uuid.New(),
				ProductID:   uuid.New(),
				ProductName: "x",
				Quantity:    itemQty,
				UnitPrice:   decimal.NewFromInt(1),
				Total:       decimal.RequireFromString(total),
			}},
		}
		if err := env.conn.Create(&sale).Error; err != nil {
			t.Fatalf("seed sale: %v", err)
		}
	}

	seedSale("10.00", "1.00", enums.PaymentMethodCash, enums.PaymentStatusPaid, base.Add(time.Hour), 2)
	seedSale("20.00", "2.00", enums.PaymentMethodCard, enums.PaymentStatusPending, base.Add(2*time.Hour), 3)
	seedSale("99.00", "9.90", enums.PaymentMethodCash, enums.PaymentStatusRefunded, base.Add(3*time.Hour), 1)
	seedSale("50.00", "5.00", enums.PaymentMethodCash, enums.PaymentStatusPaid, base.AddDate(0, 0, 2), 1)

	stats, err := env.svc.Stats(ctx, env.company, base, base.AddDate(0, 0, 1), time.UTC)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.SaleCount != 2 {
		t.Fatalf("expected 2 sales in window, got %d", stats.SaleCount)
	}
	if stats.Revenue.String() != "30" {
		t.Fatalf("revenue = %s, want 30", stats.Revenue)
	}
	if stats.TaxCollected.String() != "3" {
		t.Fatalf("tax = %s, want 3", stats.TaxCollected)
	}
	if stats.ItemsSold != 5 {
		t.Fatalf("items sold = %d, want 5", stats.ItemsSold)
	}
	if stats.AverageTicket.String() != "15" {
		t.Fatalf("average ticket = %s, want 15", stats.AverageTicket)
	}
	if got := stats.ByPaymentMethod["cash"]; got.String() != "10" {
		t.Fatalf("cash bucket = %s, want 10", got)
	}
	if got := stats.ByPaymentMethod["card"]; got.String() != "20" {
		t.Fatalf("card bucket = %s, want 20", got)
	}

	// The all-time total spans rows outside the window and still skips
	// the refunded sale.
	if stats.TotalSaleCount != 3 {
		t.Fatalf("total sale count = %d, want 3", stats.TotalSaleCount)
	}
	if stats.TotalRevenue.String() != "80" {
		t.Fatalf("total revenue = %s, want 80", stats.TotalRevenue)
	}
	// Seeded sales all sit in 2025, before the current local day.
	if stats.TodaySaleCount != 0 || !stats.TodayRevenue.IsZero() {
		t.Fatalf("today partition = %d/%s, want 0/0", stats.TodaySaleCount, stats.TodayRevenue)
	}
}

func TestStatsTodayPartition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Mug", "10.00", 5)
	env.addToCart(t, product, 1)
	if _, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{PaymentMethod: enums.PaymentMethodCash}); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// A window in the past still reports the fresh sale under today
	// and in the all-time total.
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stats, err := env.svc.Stats(ctx, env.company, from, from.AddDate(0, 0, 1), time.UTC)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SaleCount != 0 {
		t.Fatalf("window count = %d, want 0", stats.SaleCount)
	}
	if stats.TodaySaleCount != 1 {
		t.Fatalf("today count = %d, want 1", stats.TodaySaleCount)
	}
	if stats.TodayRevenue.String() != "11" {
		t.Fatalf("today revenue = %s, want 11", stats.TodayRevenue)
	}
	if stats.TotalSaleCount != 1 {
		t.Fatalf("total count = %d, want 1", stats.TotalSaleCount)
	}
}

func TestStatsRejectsInvertedWindow(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	_, err := env.svc.Stats(context.Background(), env.company, now, now, time.UTC)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefundRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Item", "10.00", 5)
	env.addToCart(t, product, 2)

	sale, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{PaymentMethod: enums.PaymentMethodCash})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	refunded, err := env.svc.Refund(ctx, env.company, sale.ID)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.PaymentStatus != enums.PaymentStatusRefunded {
		t.Fatalf("expected refunded status, got %s", refunded.PaymentStatus)
	}

	var got models.Product
	if err := env.conn.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if got.Quantity != 5 {
		t.Fatalf("expected stock back at 5, got %d", got.Quantity)
	}

	_, err = env.svc.Refund(ctx, env.company, sale.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on double refund, got %v", err)
	}
}

func TestGetSaleScopedToTenant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.seedProduct(t, "Item", "10.00", 5)
	env.addToCart(t, product, 1)
	sale, err := env.svc.Checkout(ctx, env.actor(), CheckoutInput{PaymentMethod: enums.PaymentMethodCash})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	_, err = env.svc.GetSale(ctx, uuid.New(), sale.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected cross-tenant not found, got %v", err)
	}
}
