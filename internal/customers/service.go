package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service manages the customer book for a company.
type Service interface {
	Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Customer, error)
	Update(ctx context.Context, companyID, customerID uuid.UUID, input UpdateInput) (*models.Customer, error)
	Delete(ctx context.Context, companyID, customerID uuid.UUID) error
	Get(ctx context.Context, companyID, customerID uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, companyID uuid.UUID, search string) ([]models.Customer, error)
}

// CreateInput holds the payload for a new customer.
type CreateInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Tags    []string
}

// UpdateInput holds optional mutation values.
type UpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Tags    *[]string
}

type service struct {
	db *gorm.DB
}

// NewService constructs the customer service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Customer, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	customer := &models.Customer{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(input.Name),
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		Tags:      pq.StringArray(input.Tags),
	}
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, companyID, customerID uuid.UUID, input UpdateInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Tags != nil {
		customer.Tags = pq.StringArray(*input.Tags)
	}

	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, companyID, customerID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", customerID, companyID).
		Delete(&models.Customer{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: delete customer")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, companyID, customerID uuid.UUID) (*models.Customer, error) {
	if companyID == uuid.Nil || customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and customer id are required")
	}
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&customer, "id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return &customer, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, search string) ([]models.Customer, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}

	query := s.db.WithContext(ctx).Where("company_id = ?", companyID)
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var customers []models.Customer
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	return customers, nil
}
