package controllers

import (
	"net/http"
	"strings"

	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/api/validators"
	"github.com/ventaflow/ventaflow-backend/internal/catalog"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
)

// POSCatalog lists sellable products for the register screen.
func POSCatalog(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := catalog.ListFilter{
			Search:   validators.SanitizeString(r.URL.Query().Get("search"), 120),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}

		items, err := svc.ListSellable(r.Context(), companyID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// POSCatalogCategories returns the distinct category names in use.
func POSCatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.ListCategories(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}
