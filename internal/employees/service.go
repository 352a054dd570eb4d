package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service manages staff records.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Employee, error)
	Update(ctx context.Context, companyID, employeeID uuid.UUID, input UpdateInput) (*models.Employee, error)
	Deactivate(ctx context.Context, companyID, employeeID uuid.UUID) error
	Get(ctx context.Context, companyID, employeeID uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]models.Employee, error)
}

// CreateInput holds the payload for a new employee.
type CreateInput struct {
	UserID   *uuid.UUID
	FullName string
	Position string
	Salary   decimal.Decimal
	HiredOn  time.Time
}

// UpdateInput holds optional mutation values.
type UpdateInput struct {
	FullName *string
	Position *string
	Salary   *decimal.Decimal
	UserID   *uuid.UUID
}

type service struct {
	db *gorm.DB
}

// NewService constructs the employee service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Employee, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Position) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name and position are required")
	}
	if input.Salary.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
	}
	if input.HiredOn.IsZero() {
		input.HiredOn = time.Now().UTC()
	}

	employee := &models.Employee{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    input.UserID,
		FullName:  strings.TrimSpace(input.FullName),
		Position:  strings.TrimSpace(input.Position),
		Salary:    input.Salary.Round(2),
		HiredOn:   input.HiredOn,
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert employee")
	}
	return employee, nil
}

func (s *service) Update(ctx context.Context, companyID, employeeID uuid.UUID, input UpdateInput) (*models.Employee, error) {
	employee, err := s.Get(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		employee.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Position != nil {
		if strings.TrimSpace(*input.Position) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "position cannot be empty")
		}
		employee.Position = strings.TrimSpace(*input.Position)
	}
	if input.Salary != nil {
		if input.Salary.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
		}
		employee.Salary = input.Salary.Round(2)
	}
	if input.UserID != nil {
		employee.UserID = input.UserID
	}

	if err := s.db.WithContext(ctx).Save(employee).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update employee")
	}
	return employee, nil
}

func (s *service) Deactivate(ctx context.Context, companyID, employeeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ? AND company_id = ?", employeeID, companyID).
		Update("is_active", false)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: deactivate employee")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, companyID, employeeID uuid.UUID) (*models.Employee, error) {
	if companyID == uuid.Nil || employeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and employee id are required")
	}
	var employee models.Employee
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&employee, "id = ?", employeeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
	}
	return &employee, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, activeOnly bool) ([]models.Employee, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	query := s.db.WithContext(ctx).Where("company_id = ?", companyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var employees []models.Employee
	if err := query.Order("full_name ASC").Find(&employees).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list employees")
	}
	return employees, nil
}
