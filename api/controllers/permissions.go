package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/api/middleware"
	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/api/validators"
	"github.com/ventaflow/ventaflow-backend/internal/permissions"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
)

type grantPermissionRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	Module    string `json:"module" validate:"required"`
	CanView   bool   `json:"can_view"`
	CanCreate bool   `json:"can_create"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// GrantPermission upserts a per-user module override. Admin only, the
// service enforces the role.
func GrantPermission(svc permissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.SubjectFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload grantPermissionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
			return
		}
		module, err := enums.ParseAppModule(strings.TrimSpace(payload.Module))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid module"))
			return
		}

		grant, err := svc.Grant(r.Context(), actor, permissions.GrantInput{
			UserID:    userID,
			Module:    module,
			CanView:   payload.CanView,
			CanCreate: payload.CanCreate,
			CanEdit:   payload.CanEdit,
			CanDelete: payload.CanDelete,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, grant)
	}
}

// RevokePermission removes an override, restoring the role default.
func RevokePermission(svc permissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.SubjectFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := parsePathUUID(chi.URLParam(r, "userID"), "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		module, err := enums.ParseAppModule(strings.TrimSpace(chi.URLParam(r, "module")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid module"))
			return
		}

		if err := svc.Revoke(r.Context(), actor, userID, module); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "revoked"})
	}
}

// ListUserPermissions returns the stored overrides for a user.
func ListUserPermissions(svc permissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := parsePathUUID(chi.URLParam(r, "userID"), "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForUser(r.Context(), companyID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// MyModules reports which modules the caller can currently view. The
// client uses this to build its navigation.
func MyModules(svc permissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, err := middleware.SubjectFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		visible := make([]enums.AppModule, 0)
		for _, module := range enums.AppModules() {
			allowed, err := svc.Can(r.Context(), subject, module, enums.PermissionActionView)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if allowed {
				visible = append(visible, module)
			}
		}

		responses.WriteSuccess(w, map[string]any{"modules": visible})
	}
}
