package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

const saleNumberFormat = "SALE-%06d"

// AllocateSaleNumber reserves the next sale number for the company.
// The counter row is locked for the duration of the surrounding
// transaction, so concurrent checkouts serialize here and every
// committed sale gets a distinct, gap-minimal number.
func AllocateSaleNumber(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) (string, error) {
	if tx == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "sale number allocation requires a transaction")
	}
	if companyID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}

	var counter models.SaleCounter
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, "company_id = ?", companyID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		counter = models.SaleCounter{CompanyID: companyID, NextValue: 1}
		if err := tx.WithContext(ctx).Create(&counter).Error; err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeSequence, err, "db: create sale counter")
		}
	case err != nil:
		return "", pkgerrors.Wrap(pkgerrors.CodeSequence, err, "db: lock sale counter")
	}

	allocated := counter.NextValue
	err = tx.WithContext(ctx).
		Model(&models.SaleCounter{}).
		Where("company_id = ?", companyID).
		Update("next_value", allocated+1).Error
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeSequence, err, "db: advance sale counter")
	}

	return fmt.Sprintf(saleNumberFormat, allocated), nil
}
