package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	"github.com/ventaflow/ventaflow-backend/pkg/pagination"
)

// Repository owns persistence for committed sales.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateSale inserts the header and its items in one statement batch.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// FindByID loads a sale with items, scoped to the company.
func (r *Repository) FindByID(ctx context.Context, companyID, saleID uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		First(&sale, "id = ?", saleID).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListRecent returns one page of sales, newest first, keyed by the
// (created_at, id) cursor.
func (r *Repository) ListRecent(ctx context.Context, companyID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// ListBetween loads sale headers in [from, to) for aggregation.
func (r *Repository) ListBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND created_at >= ? AND created_at < ?", companyID, from, to).
		Where("payment_status <> ?", string(enums.PaymentStatusRefunded)).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// Summarize returns the revenue sum and sale count for the window,
// refunded sales excluded. A zero bound leaves that side open, so two
// zero bounds summarize the full history.
func (r *Repository) Summarize(ctx context.Context, companyID uuid.UUID, from, to time.Time) (decimal.Decimal, int, error) {
	var row struct {
		Revenue decimal.Decimal
		Count   int
	}
	query := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("company_id = ?", companyID).
		Where("payment_status <> ?", string(enums.PaymentStatusRefunded))
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at < ?", to)
	}
	err := query.Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Revenue, row.Count, nil
}

// UpdatePaymentStatus transitions the payment status for a sale.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, companyID, saleID uuid.UUID, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ? AND company_id = ?", saleID, companyID).
		Update("payment_status", status)
	return res.RowsAffected, res.Error
}
