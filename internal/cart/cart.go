package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Item identifies a catalog product being added to a cart, carrying
// the fields the line snapshots.
type Item struct {
	ProductID uuid.UUID
	Name      string
	SKU       string
	UnitPrice decimal.Decimal
	Available int
}

// Line is a single product entry in a cart. Name, SKU and UnitPrice
// are snapshots taken when the line was added so catalog edits during
// an open session do not shift the displayed totals.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Available int             `json:"available"`
}

// Total returns the extended price for the line.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Totals is the price breakdown for a cart at a given tax/discount input.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Cart is the volatile working set for one cashier session. It lives
// in process memory only; nothing is persisted until checkout commits.
type Cart struct {
	mu        sync.Mutex
	lines     []Line
	updatedAt time.Time
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{updatedAt: time.Now()}
}

// Add inserts a product line or increments the existing one. The
// resulting quantity is rejected when it would exceed the available
// stock snapshot.
func (c *Cart) Add(item Item) error {
	if item.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if item.Available <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == item.ProductID {
			if c.lines[i].Quantity+1 > item.Available {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
			}
			c.lines[i].Quantity++
			c.lines[i].Available = item.Available
			c.updatedAt = time.Now()
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: item.ProductID,
		Name:      item.Name,
		SKU:       item.SKU,
		UnitPrice: item.UnitPrice,
		Quantity:  1,
		Available: item.Available,
	})
	c.updatedAt = time.Now()
	return nil
}

// SetQuantity replaces the quantity for an existing line, clamped into
// [1, available]. A line is never removed through this operation.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if quantity < 1 {
			quantity = 1
		}
		if quantity > c.lines[i].Available {
			quantity = c.lines[i].Available
		}
		c.lines[i].Quantity = quantity
		c.updatedAt = time.Now()
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
}

// Remove drops the line for the given product. Removing an absent
// product changes nothing.
func (c *Cart) Remove(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.updatedAt = time.Now()
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.updatedAt = time.Now()
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Totals computes the price breakdown: tax applies to the full
// subtotal, the discount comes off the taxed amount. Rounded to cents
// at each boundary.
func (c *Cart) Totals(taxRate, discount decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Total())
	}
	subtotal = subtotal.Round(2)

	if discount.GreaterThan(subtotal) {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot exceed subtotal")
	}

	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Discount: discount.Round(2),
		Tax:      tax,
		Total:    subtotal.Add(tax).Sub(discount).Round(2),
	}, nil
}
