package employees

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:employees_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Employee{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := newTestDB(t)
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCreateAndGetEmployee(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	created, err := svc.Create(ctx, companyID, CreateInput{
		FullName: "  Ana Ruiz ",
		Position: "Cashier",
		Salary:   decimal.RequireFromString("1200.505"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.FullName != "Ana Ruiz" {
		t.Fatalf("expected trimmed name, got %q", created.FullName)
	}
	if !created.Salary.Equal(decimal.RequireFromString("1200.51")) {
		t.Fatalf("expected salary rounded to cents, got %s", created.Salary)
	}
	if created.HiredOn.IsZero() {
		t.Fatal("expected hired_on to default to now")
	}
	if !created.IsActive {
		t.Fatal("expected new employee to be active")
	}

	got, err := svc.Get(ctx, companyID, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Position != "Cashier" {
		t.Fatalf("unexpected position %q", got.Position)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing name", CreateInput{Position: "Manager"}},
		{"missing position", CreateInput{FullName: "Ana"}},
		{"negative salary", CreateInput{FullName: "Ana", Position: "Manager", Salary: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, companyID, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	_, err := svc.Create(ctx, uuid.Nil, CreateInput{FullName: "Ana", Position: "Manager"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for nil company, got %v", err)
	}
}

func TestUpdateEmployeePatchesFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	created, err := svc.Create(ctx, companyID, CreateInput{
		FullName: "Ana Ruiz",
		Position: "Cashier",
		Salary:   decimal.NewFromInt(1200),
		HiredOn:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	position := "Store Manager"
	salary := decimal.NewFromInt(1800)
	updated, err := svc.Update(ctx, companyID, created.ID, UpdateInput{
		Position: &position,
		Salary:   &salary,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Position != "Store Manager" {
		t.Fatalf("unexpected position %q", updated.Position)
	}
	if !updated.Salary.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("unexpected salary %s", updated.Salary)
	}
	if updated.FullName != "Ana Ruiz" {
		t.Fatalf("untouched field changed, got %q", updated.FullName)
	}

	empty := "  "
	_, err = svc.Update(ctx, companyID, created.ID, UpdateInput{FullName: &empty})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestDeactivateEmployee(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	created, err := svc.Create(ctx, companyID, CreateInput{FullName: "Ana", Position: "Cashier"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Deactivate(ctx, companyID, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.List(ctx, companyID, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active employees, got %d", len(active))
	}

	all, err := svc.List(ctx, companyID, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected record to survive deactivation, got %d", len(all))
	}

	err = svc.Deactivate(ctx, companyID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEmployeesScopedToCompany(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	companyA := uuid.New()
	companyB := uuid.New()

	created, err := svc.Create(ctx, companyA, CreateInput{FullName: "Ana", Position: "Cashier"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(ctx, companyB, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected cross-tenant lookup to miss, got %v", err)
	}

	list, err := svc.List(ctx, companyB, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for other company, got %d", len(list))
	}
}
