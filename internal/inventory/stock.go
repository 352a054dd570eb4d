package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// StockRequest asks for qty units of a product to be taken from stock.
type StockRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// StockResult reports the per-product outcome of a decrement attempt.
type StockResult struct {
	ProductID uuid.UUID
	Applied   bool
	Reason    string
}

// DecrementStock conditionally takes stock for each request inside the
// caller's transaction. The UPDATE is guarded by the current quantity,
// so a concurrent checkout that got there first makes the guard fail
// instead of driving stock negative. Callers must roll back when any
// result is not applied.
func DecrementStock(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, requests []StockRequest) ([]StockResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock decrement requires a transaction")
	}

	results := make([]StockResult, 0, len(requests))
	for _, req := range requests {
		if req.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity %d for product %s", req.Qty, req.ProductID))
		}

		res := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND company_id = ? AND quantity >= ?", req.ProductID, companyID, req.Qty).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", req.Qty))
		if res.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: decrement stock")
		}

		result := StockResult{ProductID: req.ProductID, Applied: res.RowsAffected == 1}
		if !result.Applied {
			result.Reason = "insufficient stock"
		}
		results = append(results, result)
	}
	return results, nil
}

// LowStockAmong returns which of the given products are at or below
// their minimum stock level.
func LowStockAmong(ctx context.Context, conn *gorm.DB, companyID uuid.UUID, productIDs []uuid.UUID) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := conn.WithContext(ctx).
		Where("company_id = ? AND id IN ? AND quantity <= min_stock", companyID, productIDs).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: low stock lookup")
	}
	return products, nil
}

// RestoreStock adds quantities back, used by refund flows.
func RestoreStock(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, requests []StockRequest) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "stock restore requires a transaction")
	}
	for _, req := range requests {
		if req.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity %d for product %s", req.Qty, req.ProductID))
		}
		res := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND company_id = ?", req.ProductID, companyID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", req.Qty))
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: restore stock")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", req.ProductID))
		}
	}
	return nil
}
