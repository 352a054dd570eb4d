package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service exposes the POS catalog read surface.
type Service interface {
	ListSellable(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]ItemDTO, error)
	GetSellable(ctx context.Context, companyID, productID uuid.UUID) (*ItemDTO, error)
	ListCategories(ctx context.Context, companyID uuid.UUID) ([]string, error)
}

// ItemDTO is the sellable product shape returned to the POS screen.
type ItemDTO struct {
	ID       uuid.UUID       `json:"id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category *string         `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Unit     *string         `json:"unit,omitempty"`
	LowStock bool            `json:"low_stock"`
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListSellable(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]ItemDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}

	products, err := s.repo.ListSellable(ctx, companyID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sellable products")
	}

	items := make([]ItemDTO, 0, len(products))
	for i := range products {
		items = append(items, newItemDTO(&products[i]))
	}
	return items, nil
}

func (s *service) GetSellable(ctx context.Context, companyID, productID uuid.UUID) (*ItemDTO, error) {
	if companyID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and product id are required")
	}

	product, err := s.repo.FindSellable(ctx, companyID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	dto := newItemDTO(product)
	return &dto, nil
}

func (s *service) ListCategories(ctx context.Context, companyID uuid.UUID) ([]string, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	categories, err := s.repo.ListCategories(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

func newItemDTO(product *models.Product) ItemDTO {
	return ItemDTO{
		ID:       product.ID,
		SKU:      product.SKU,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
		Quantity: product.Quantity,
		Unit:     product.Unit,
		LowStock: product.MinStock > 0 && product.Quantity <= product.MinStock,
	}
}
