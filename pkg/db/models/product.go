package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the sellable catalog entry. Quantity is the on-hand stock
// decremented at checkout commit time.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID   uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	SKU         string          `gorm:"column:sku;not null"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Category    *string         `gorm:"column:category"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Cost        decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null;default:0"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	MinStock    int             `gorm:"column:min_stock;not null;default:0"`
	Unit        *string         `gorm:"column:unit"`
	Barcode     *string         `gorm:"column:barcode"`
	SupplierID  *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
