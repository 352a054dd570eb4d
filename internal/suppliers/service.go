package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service manages supplier records.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Supplier, error)
	Update(ctx context.Context, companyID, supplierID uuid.UUID, input UpdateInput) (*models.Supplier, error)
	Delete(ctx context.Context, companyID, supplierID uuid.UUID) error
	Get(ctx context.Context, companyID, supplierID uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, companyID uuid.UUID) ([]models.Supplier, error)
}

// CreateInput holds the payload for a new supplier.
type CreateInput struct {
	Name          string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Notes         *string
}

// UpdateInput holds optional mutation values.
type UpdateInput struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Notes         *string
	IsActive      *bool
}

type service struct {
	db *gorm.DB
}

// NewService constructs the supplier service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Supplier, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}

	supplier := &models.Supplier{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Name:          strings.TrimSpace(input.Name),
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		Notes:         input.Notes,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return supplier, nil
}

func (s *service) Update(ctx context.Context, companyID, supplierID uuid.UUID, input UpdateInput) (*models.Supplier, error) {
	supplier, err := s.Get(ctx, companyID, supplierID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		supplier.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactPerson != nil {
		supplier.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}
	if input.IsActive != nil {
		supplier.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return supplier, nil
}

func (s *service) Delete(ctx context.Context, companyID, supplierID uuid.UUID) error {
	// Products keep their supplier_id; the row is disabled, not removed.
	res := s.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ? AND company_id = ?", supplierID, companyID).
		Update("is_active", false)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: deactivate supplier")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, companyID, supplierID uuid.UUID) (*models.Supplier, error) {
	if companyID == uuid.Nil || supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and supplier id are required")
	}
	var supplier models.Supplier
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&supplier, "id = ?", supplierID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return &supplier, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID) ([]models.Supplier, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	var suppliers []models.Supplier
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&suppliers).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	return suppliers, nil
}
