package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
)

// Repository reads sellable products for the POS surface. Writes go
// through the inventory package; this side is read-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows the sellable listing.
type ListFilter struct {
	Search   string
	Category string
}

// ListSellable returns active, in-stock products for the company,
// ordered by name.
func (r *Repository) ListSellable(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("is_active = ?", true).
		Where("quantity > 0")

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindSellable loads one product if it is active and owned by the company.
func (r *Repository) FindSellable(ctx context.Context, companyID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("is_active = ?", true).
		First(&product, "id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories returns the distinct non-null categories for the company.
func (r *Repository) ListCategories(ctx context.Context, companyID uuid.UUID) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("company_id = ? AND category IS NOT NULL", companyID).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
