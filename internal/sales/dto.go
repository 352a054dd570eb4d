package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// SaleDTO is the committed sale shape returned to clients.
type SaleDTO struct {
	ID            uuid.UUID           `json:"id"`
	SaleNumber    string              `json:"sale_number"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName  *string             `json:"customer_name,omitempty"`
	CustomerPhone *string             `json:"customer_phone,omitempty"`
	CustomerEmail *string             `json:"customer_email,omitempty"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	Tax           decimal.Decimal     `json:"tax"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Notes         *string             `json:"notes,omitempty"`
	CreatedBy     uuid.UUID           `json:"created_by"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []SaleItemDTO       `json:"items"`
}

// SaleItemDTO is the committed line snapshot.
type SaleItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// SaleListResult is one page of sale history plus the next cursor.
type SaleListResult struct {
	Sales      []SaleDTO `json:"sales"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// NewSaleDTO maps the model, items included when preloaded.
func NewSaleDTO(sale *models.Sale) SaleDTO {
	items := make([]SaleItemDTO, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}
	return SaleDTO{
		ID:            sale.ID,
		SaleNumber:    sale.SaleNumber,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		CustomerEmail: sale.CustomerEmail,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Tax:           sale.Tax,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		PaymentStatus: sale.PaymentStatus,
		Notes:         sale.Notes,
		CreatedBy:     sale.CreatedBy,
		CreatedAt:     sale.CreatedAt,
		Items:         items,
	}
}
