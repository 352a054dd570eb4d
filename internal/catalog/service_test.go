package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string, price string, qty int, active bool) models.Product {
	t.Helper()
	p, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	category := "beverages"
	product := models.Product{
		ID:        uuid.New(),
		CompanyID: companyID,
		SKU:       "SKU-" + uuid.NewString()[:8],
		Name:      name,
		Category:  &category,
		Price:     p,
		Quantity:  qty,
		MinStock:  2,
		IsActive:  active,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestListSellableFiltersStockAndTenant(t *testing.T) {
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	company := uuid.New()
	otherCompany := uuid.New()
	seedProduct(t, db, company, "Americano", "3.50", 10, true)
	seedProduct(t, db, company, "Out Of Stock", "2.00", 0, true)
	seedProduct(t, db, company, "Inactive", "2.00", 5, false)
	seedProduct(t, db, otherCompany, "Foreign", "9.99", 5, true)

	items, err := svc.ListSellable(ctx, company, ListFilter{})
	if err != nil {
		t.Fatalf("list sellable: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 sellable item, got %d", len(items))
	}
	if items[0].Name != "Americano" {
		t.Fatalf("unexpected item %q", items[0].Name)
	}
}

func TestListSellableSearch(t *testing.T) {
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))
	ctx := context.Background()
	company := uuid.New()

	seedProduct(t, db, company, "Espresso Roast", "8.00", 4, true)
	seedProduct(t, db, company, "Green Tea", "5.00", 4, true)

	items, err := svc.ListSellable(ctx, company, ListFilter{Search: "espresso"})
	if err != nil {
		t.Fatalf("list sellable: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Espresso Roast" {
		t.Fatalf("search mismatch: %+v", items)
	}
}

func TestListSellableSearchMatchesCategory(t *testing.T) {
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))
	ctx := context.Background()
	company := uuid.New()

	matched := seedProduct(t, db, company, "Sparkling Water", "2.00", 6, true)
	other := seedProduct(t, db, company, "Notebook", "4.00", 6, true)
	if err := db.Model(&other).Update("category", "Stationery").Error; err != nil {
		t.Fatalf("update category: %v", err)
	}

	items, err := svc.ListSellable(ctx, company, ListFilter{Search: "bever"})
	if err != nil {
		t.Fatalf("list sellable: %v", err)
	}
	if len(items) != 1 || items[0].ID != matched.ID {
		t.Fatalf("category search mismatch: %+v", items)
	}

	// Case-insensitive on the category as well.
	items, err = svc.ListSellable(ctx, company, ListFilter{Search: "STATION"})
	if err != nil {
		t.Fatalf("list sellable: %v", err)
	}
	if len(items) != 1 || items[0].ID != other.ID {
		t.Fatalf("uppercase category search mismatch: %+v", items)
	}
}

func TestGetSellable(t *testing.T) {
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))
	ctx := context.Background()
	company := uuid.New()

	product := seedProduct(t, db, company, "Americano", "3.50", 1, true)

	item, err := svc.GetSellable(ctx, company, product.ID)
	if err != nil {
		t.Fatalf("get sellable: %v", err)
	}
	if item.ID != product.ID {
		t.Fatalf("unexpected item id %s", item.ID)
	}
	if !item.LowStock {
		t.Fatal("expected low stock flag at quantity <= min_stock")
	}

	_, err = svc.GetSellable(ctx, company, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	// Tenant isolation: the product is invisible to another company.
	_, err = svc.GetSellable(ctx, uuid.New(), product.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected cross-tenant not found, got %v", err)
	}
}

func TestListCategories(t *testing.T) {
	db := newTestDB(t)
	svc, _ := NewService(NewRepository(db))
	ctx := context.Background()
	company := uuid.New()

	seedProduct(t, db, company, "Americano", "3.50", 5, true)
	seedProduct(t, db, company, "Latte", "4.50", 5, true)

	categories, err := svc.ListCategories(ctx, company)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 || categories[0] != "beverages" {
		t.Fatalf("unexpected categories %v", categories)
	}
}
