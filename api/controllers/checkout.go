package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/api/validators"
	"github.com/ventaflow/ventaflow-backend/internal/sales"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Discount      *string `json:"discount,omitempty"`
	CustomerID    *string `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName  *string `json:"customer_name,omitempty" validate:"omitempty,max=255"`
	CustomerPhone *string `json:"customer_phone,omitempty" validate:"omitempty,max=50"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (r checkoutRequest) toInput() (sales.CheckoutInput, error) {
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(r.PaymentMethod))
	if err != nil {
		return sales.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	discount := decimal.Zero
	if r.Discount != nil && strings.TrimSpace(*r.Discount) != "" {
		discount, err = decimal.NewFromString(strings.TrimSpace(*r.Discount))
		if err != nil {
			return sales.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount")
		}
	}

	var customerID *uuid.UUID
	if r.CustomerID != nil {
		parsed, err := uuid.Parse(*r.CustomerID)
		if err != nil {
			return sales.CheckoutInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
		}
		customerID = &parsed
	}

	return sales.CheckoutInput{
		PaymentMethod: method,
		Discount:      discount,
		CustomerID:    customerID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// Checkout commits the caller's cart as a sale.
func Checkout(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.Checkout(r.Context(), sales.Actor{UserID: userID, CompanyID: companyID}, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithSaleNumber(r.Context(), sale.SaleNumber)
			logg.Info(ctx, "checkout committed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}
