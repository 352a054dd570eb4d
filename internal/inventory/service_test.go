package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventaflow/ventaflow-backend/pkg/db"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, uuid.UUID) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, uuid.New()
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, company, CreateProductInput{
		SKU:      "SKU-001",
		Name:     "Americano",
		Price:    decimal.RequireFromString("3.505"),
		Quantity: 10,
		MinStock: 2,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.Price.String() != "3.5" {
		t.Fatalf("price should round to cents, got %s", created.Price)
	}

	got, err := svc.GetProduct(ctx, company, created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.SKU != "SKU-001" {
		t.Fatalf("unexpected sku %s", got.SKU)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	cases := []CreateProductInput{
		{SKU: "", Name: "X", Price: decimal.NewFromInt(1)},
		{SKU: "S", Name: "", Price: decimal.NewFromInt(1)},
		{SKU: "S", Name: "X", Price: decimal.NewFromInt(-1)},
		{SKU: "S", Name: "X", Price: decimal.NewFromInt(1), Quantity: -1},
	}
	for i, input := range cases {
		_, err := svc.CreateProduct(ctx, company, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUpdateProduct(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, company, CreateProductInput{
		SKU:      "SKU-002",
		Name:     "Latte",
		Price:    decimal.RequireFromString("4.00"),
		Quantity: 5,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newName := "Flat White"
	newPrice := decimal.RequireFromString("4.75")
	updated, err := svc.UpdateProduct(ctx, company, created.ID, UpdateProductInput{
		Name:  &newName,
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != "Flat White" || updated.Price.String() != "4.75" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteProductDeactivates(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, company, CreateProductInput{
		SKU:      "SKU-003",
		Name:     "Mocha",
		Price:    decimal.NewFromInt(5),
		Quantity: 5,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := svc.DeleteProduct(ctx, company, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	got, err := svc.GetProduct(ctx, company, created.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.IsActive {
		t.Fatal("delete should deactivate, not remove, the row")
	}

	err = svc.DeleteProduct(ctx, company, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListLowStock(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateProduct(ctx, company, CreateProductInput{
		SKU: "LOW", Name: "Low", Price: decimal.NewFromInt(1), Quantity: 1, MinStock: 3, IsActive: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, company, CreateProductInput{
		SKU: "OK", Name: "Ok", Price: decimal.NewFromInt(1), Quantity: 50, MinStock: 3, IsActive: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	low, err := svc.ListLowStock(ctx, company)
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(low) != 1 || low[0].SKU != "LOW" {
		t.Fatalf("unexpected low stock result: %+v", low)
	}
}

func TestRestock(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, company, CreateProductInput{
		SKU: "SKU-004", Name: "Beans", Price: decimal.NewFromInt(12), Quantity: 1, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	restocked, err := svc.Restock(ctx, company, created.ID, 9)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if restocked.Quantity != 10 {
		t.Fatalf("expected quantity 10, got %d", restocked.Quantity)
	}

	if _, err := svc.Restock(ctx, company, created.ID, 0); err == nil {
		t.Fatal("expected error for non-positive restock")
	}
}
