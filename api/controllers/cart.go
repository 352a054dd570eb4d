package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/api/validators"
	"github.com/ventaflow/ventaflow-backend/internal/cart"
	"github.com/ventaflow/ventaflow-backend/internal/catalog"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
)

// cartView is the cart payload returned to the register screen. Totals
// are quoted with a zero discount; the final discount is applied at
// checkout.
type cartView struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

func renderCart(session *cart.Cart, taxRate decimal.Decimal) (cartView, error) {
	totals, err := session.Totals(taxRate, decimal.Zero)
	if err != nil {
		return cartView{}, err
	}
	return cartView{Lines: session.Lines(), Totals: totals}, nil
}

// CartFetch returns the caller's live cart.
func CartFetch(carts *cart.Store, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := renderCart(carts.Get(companyID, userID), taxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// CartAddItem adds one unit of a product, looked up from the live
// catalog so price and availability are current.
func CartAddItem(carts *cart.Store, catalogSvc catalog.Service, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		item, err := catalogSvc.GetSellable(r.Context(), companyID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := carts.Get(companyID, userID)
		if err := session.Add(cart.Item{
			ProductID: item.ID,
			Name:      item.Name,
			SKU:       item.SKU,
			UnitPrice: item.Price,
			Available: item.Quantity,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := renderCart(session, taxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type setCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSetQuantity sets the line quantity for a product, clamped into
// [1, available].
func CartSetQuantity(carts *cart.Store, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := carts.Get(companyID, userID)
		if err := session.SetQuantity(productID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := renderCart(session, taxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops a product's line entirely.
func CartRemoveItem(carts *cart.Store, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := carts.Get(companyID, userID)
		session.Remove(productID)

		view, err := renderCart(session, taxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the caller's cart.
func CartClear(carts *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		carts.Drop(companyID, userID)
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
