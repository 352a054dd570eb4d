package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, uuid.UUID) {
	t.Helper()
	dsn := "file:suppliers_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Supplier{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, uuid.New()
}

func TestSupplierLifecycle(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, company, CreateInput{Name: "Roastery Co"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsActive {
		t.Fatal("new suppliers start active")
	}

	contact := "Maria"
	updated, err := svc.Update(ctx, company, created.ID, UpdateInput{ContactPerson: &contact})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ContactPerson == nil || *updated.ContactPerson != "Maria" {
		t.Fatalf("contact not applied: %+v", updated)
	}

	if err := svc.Delete(ctx, company, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := svc.Get(ctx, company, created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.IsActive {
		t.Fatal("delete should deactivate the supplier")
	}
}

func TestSupplierValidationAndScoping(t *testing.T) {
	svc, company := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, company, CreateInput{Name: ""})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	created, err := svc.Create(ctx, company, CreateInput{Name: "Dairy Ltd"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Get(ctx, uuid.New(), created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected cross-tenant not found, got %v", err)
	}
}
