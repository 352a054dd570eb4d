package models

import (
	"time"

	"github.com/google/uuid"
)

// SaleCounter holds the per-company sale number sequence. The row is
// locked and incremented inside the checkout transaction so two
// concurrent checkouts in the same company never share a number.
type SaleCounter struct {
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;primaryKey"`
	NextValue int64     `gorm:"column:next_value;not null;default:1"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
