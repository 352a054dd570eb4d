package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Customer is an optional buyer record attached to sales.
type Customer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	Email          *string         `gorm:"column:email"`
	Phone          *string         `gorm:"column:phone"`
	Address        *string         `gorm:"column:address"`
	Tags           pq.StringArray  `gorm:"column:tags;type:text[]"`
	TotalPurchases decimal.Decimal `gorm:"column:total_purchases;type:numeric(12,2);not null;default:0"`
	LastPurchase   *time.Time      `gorm:"column:last_purchase_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
