package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/internal/cart"
	"github.com/ventaflow/ventaflow-backend/internal/inventory"
	"github.com/ventaflow/ventaflow-backend/internal/notifications"
	"github.com/ventaflow/ventaflow-backend/pkg/config"
	"github.com/ventaflow/ventaflow-backend/pkg/db"
	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/metrics"
	"github.com/ventaflow/ventaflow-backend/pkg/pagination"
)

// Actor identifies the authenticated caller for sales operations.
type Actor struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

// CheckoutInput carries the request-scoped checkout parameters. The
// line items come from the caller's live cart, not from the request.
// Buyer contact fields are snapshots for walk-in customers; CustomerID
// links a CRM record when one exists.
type CheckoutInput struct {
	PaymentMethod enums.PaymentMethod
	Discount      decimal.Decimal
	CustomerID    *uuid.UUID
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
}

// Service exposes checkout, history, and aggregate reads over sales.
type Service interface {
	Checkout(ctx context.Context, actor Actor, input CheckoutInput) (*SaleDTO, error)
	GetSale(ctx context.Context, companyID, saleID uuid.UUID) (*SaleDTO, error)
	ListRecent(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*SaleListResult, error)
	Stats(ctx context.Context, companyID uuid.UUID, from, to time.Time, loc *time.Location) (*StatsDTO, error)
	Refund(ctx context.Context, companyID, saleID uuid.UUID) (*SaleDTO, error)
}

type sessionKey struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
}

// inflightGuard rejects a second checkout for the same session while
// the first is still running. Double-clicking the pay button must not
// produce two sales.
type inflightGuard struct {
	mu     sync.Mutex
	active map[sessionKey]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{active: make(map[sessionKey]struct{})}
}

func (g *inflightGuard) begin(key sessionKey) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.active[key]; exists {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *inflightGuard) end(key sessionKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}

// Notifier posts in-app notifications. Checkout calls it best-effort
// after commit; a nil notifier disables the hook.
type Notifier interface {
	Notify(ctx context.Context, input notifications.NotifyInput) (*models.Notification, error)
}

type service struct {
	carts    *cart.Store
	repo     *Repository
	dbClient *db.Client
	pos      config.POSConfig
	checkout *metrics.CheckoutMetrics
	notifier Notifier
	inflight *inflightGuard
}

// NewService constructs the sales service.
func NewService(carts *cart.Store, repo *Repository, dbClient *db.Client, pos config.POSConfig, checkoutMetrics *metrics.CheckoutMetrics, notifier Notifier) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		carts:    carts,
		repo:     repo,
		dbClient: dbClient,
		pos:      pos,
		checkout: checkoutMetrics,
		notifier: notifier,
		inflight: newInflightGuard(),
	}, nil
}

// Checkout converts the caller's cart into a committed sale. The sale
// header, items, stock decrements, counter advance, and customer
// aggregates all ride one transaction; any failure leaves nothing
// behind and keeps the cart intact for retry.
func (s *service) Checkout(ctx context.Context, actor Actor, input CheckoutInput) (*SaleDTO, error) {
	started := time.Now()

	if actor.CompanyID == uuid.Nil || actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	if !input.PaymentMethod.IsValid() {
		s.checkout.IncFailure("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.Discount.IsNegative() {
		s.checkout.IncFailure("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}

	key := sessionKey{CompanyID: actor.CompanyID, UserID: actor.UserID}
	if !s.inflight.begin(key) {
		s.checkout.IncFailure("in_flight")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress for this session")
	}
	defer s.inflight.end(key)

	if s.pos.CheckoutTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pos.CheckoutTimeout)
		defer cancel()
	}

	session := s.carts.Get(actor.CompanyID, actor.UserID)
	lines := session.Lines()
	if len(lines) == 0 {
		s.checkout.IncFailure("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	totals, err := session.Totals(s.pos.TaxRate(), input.Discount)
	if err != nil {
		s.checkout.IncFailure("validation")
		return nil, err
	}

	var committed *models.Sale
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		number, err := AllocateSaleNumber(ctx, tx, actor.CompanyID)
		if err != nil {
			return err
		}

		requests := make([]inventory.StockRequest, 0, len(lines))
		for _, line := range lines {
			requests = append(requests, inventory.StockRequest{ProductID: line.ProductID, Qty: line.Quantity})
		}
		results, err := inventory.DecrementStock(ctx, tx, actor.CompanyID, requests)
		if err != nil {
			return err
		}
		var conflicts []string
		for _, result := range results {
			if !result.Applied {
				conflicts = append(conflicts, result.ProductID.String())
			}
		}
		if len(conflicts) > 0 {
			return pkgerrors.New(pkgerrors.CodeStockConflict, "insufficient stock for one or more products").
				WithDetails(map[string]any{"product_ids": conflicts})
		}

		sale := &models.Sale{
			ID:            uuid.New(),
			CompanyID:     actor.CompanyID,
			SaleNumber:    number,
			CustomerID:    input.CustomerID,
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			CustomerEmail: input.CustomerEmail,
			Subtotal:      totals.Subtotal,
			Discount:      totals.Discount,
			Tax:           totals.Tax,
			Total:         totals.Total,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: paymentStatusFor(input.PaymentMethod),
			Notes:         input.Notes,
			CreatedBy:     actor.UserID,
			Items:         make([]models.SaleItem, 0, len(lines)),
		}
		for _, line := range lines {
			sale.Items = append(sale.Items, models.SaleItem{
				ID:          uuid.New(),
				SaleID:      sale.ID,
				ProductID:   line.ProductID,
				ProductName: line.Name,
				ProductSKU:  line.SKU,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Total:       line.Total(),
			})
		}

		if _, err := s.repo.WithTx(tx).CreateSale(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert sale")
		}

		if input.CustomerID != nil {
			if err := applyCustomerPurchase(ctx, tx, actor.CompanyID, *input.CustomerID, totals.Total); err != nil {
				return err
			}
		}

		committed = sale
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			s.checkout.IncFailure(failureReason(typed))
			return nil, err
		}
		s.checkout.IncFailure("dependency")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}

	// The sale is durable; the session cart is done.
	s.carts.Drop(actor.CompanyID, actor.UserID)

	s.checkout.IncSuccess(string(input.PaymentMethod))
	s.checkout.ObserveDuration(string(input.PaymentMethod), time.Since(started))

	// Best effort; the sale is already durable.
	if s.notifier != nil {
		link := "/sales/" + committed.ID.String()
		_, _ = s.notifier.Notify(ctx, notifications.NotifyInput{
			CompanyID: actor.CompanyID,
			UserID:    actor.UserID,
			Type:      enums.NotificationTypeSuccess,
			Title:     "Sale completed",
			Message:   fmt.Sprintf("Sale %s committed for %s", committed.SaleNumber, committed.Total.StringFixed(2)),
			Link:      &link,
		})
		s.notifyLowStock(ctx, actor, committed)
	}

	dto := NewSaleDTO(committed)
	return &dto, nil
}

func (s *service) GetSale(ctx context.Context, companyID, saleID uuid.UUID) (*SaleDTO, error) {
	if companyID == uuid.Nil || saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and sale id are required")
	}
	sale, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sale")
	}
	dto := NewSaleDTO(sale)
	return &dto, nil
}

func (s *service) ListRecent(ctx context.Context, companyID uuid.UUID, params pagination.Params) (*SaleListResult, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListRecent(ctx, companyID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}

	result := &SaleListResult{Sales: make([]SaleDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Sales = append(result.Sales, NewSaleDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// Refund marks a sale refunded and returns its stock. A refunded sale
// stays in history but drops out of the stats window.
func (s *service) Refund(ctx context.Context, companyID, saleID uuid.UUID) (*SaleDTO, error) {
	sale, err := s.repo.FindByID(ctx, companyID, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sale")
	}
	if sale.PaymentStatus == enums.PaymentStatusRefunded {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sale already refunded")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).UpdatePaymentStatus(ctx, companyID, saleID, string(enums.PaymentStatusRefunded))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update payment status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}

		requests := make([]inventory.StockRequest, 0, len(sale.Items))
		for _, item := range sale.Items {
			requests = append(requests, inventory.StockRequest{ProductID: item.ProductID, Qty: item.Quantity})
		}
		return inventory.RestoreStock(ctx, tx, companyID, requests)
	})
	if err != nil {
		return nil, err
	}

	return s.GetSale(ctx, companyID, saleID)
}

// notifyLowStock flags products the sale drained to their minimum.
func (s *service) notifyLowStock(ctx context.Context, actor Actor, sale *models.Sale) {
	ids := make([]uuid.UUID, 0, len(sale.Items))
	for _, item := range sale.Items {
		ids = append(ids, item.ProductID)
	}
	low, err := inventory.LowStockAmong(ctx, s.dbClient.DB(), actor.CompanyID, ids)
	if err != nil {
		return
	}
	for _, product := range low {
		link := "/products/" + product.ID.String()
		_, _ = s.notifier.Notify(ctx, notifications.NotifyInput{
			CompanyID: actor.CompanyID,
			UserID:    actor.UserID,
			Type:      enums.NotificationTypeWarning,
			Title:     "Low stock",
			Message:   fmt.Sprintf("%s is down to %d units", product.Name, product.Quantity),
			Link:      &link,
		})
	}
}

func paymentStatusFor(method enums.PaymentMethod) enums.PaymentStatus {
	if method == enums.PaymentMethodCash {
		return enums.PaymentStatusPaid
	}
	return enums.PaymentStatusPending
}

func applyCustomerPurchase(ctx context.Context, tx *gorm.DB, companyID, customerID uuid.UUID, total decimal.Decimal) error {
	var customer models.Customer
	err := tx.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&customer, "id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	now := time.Now().UTC()
	customer.TotalPurchases = customer.TotalPurchases.Add(total)
	customer.LastPurchase = &now
	if err := tx.WithContext(ctx).Save(&customer).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer totals")
	}
	return nil
}

func failureReason(err *pkgerrors.Error) string {
	switch err.Code() {
	case pkgerrors.CodeStockConflict:
		return "stock_conflict"
	case pkgerrors.CodeSequence:
		return "sequence"
	case pkgerrors.CodeValidation:
		return "validation"
	default:
		return "dependency"
	}
}
