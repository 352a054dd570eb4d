package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// Sale is the committed checkout record. Header and items are written
// in one transaction; a sale never exists without its items.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID     uuid.UUID           `gorm:"column:company_id;type:uuid;not null;uniqueIndex:idx_sales_company_number"`
	SaleNumber    string              `gorm:"column:sale_number;not null;uniqueIndex:idx_sales_company_number"`
	CustomerID    *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	CustomerName  *string             `gorm:"column:customer_name"`
	CustomerPhone *string             `gorm:"column:customer_phone"`
	CustomerEmail *string             `gorm:"column:customer_email"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Tax           decimal.Decimal     `gorm:"column:tax;type:numeric(12,2);not null;default:0"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Notes         *string             `gorm:"column:notes"`
	CreatedBy     uuid.UUID           `gorm:"column:created_by;type:uuid;not null"`
	Items         []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
