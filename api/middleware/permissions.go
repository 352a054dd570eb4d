package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/internal/permissions"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
)

// RequireModule gates a route on the caller holding the given action in a
// module. Runs after Auth, which seeds the subject into the context.
func RequireModule(perms permissions.Service, module enums.AppModule, action enums.PermissionAction, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := SubjectFromContext(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			allowed, err := perms.Can(r.Context(), subject, module, action)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "module access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route on an admin role.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.AppRole(RoleFromContext(r.Context()))
			if role != enums.AppRoleSuperAdmin && role != enums.AppRoleCompanyAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SubjectFromContext rebuilds the permission subject seeded by Auth.
func SubjectFromContext(ctx context.Context) (permissions.Subject, error) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return permissions.Subject{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	companyID, err := uuid.Parse(CompanyIDFromContext(ctx))
	if err != nil {
		return permissions.Subject{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant identity")
	}
	role := enums.AppRole(RoleFromContext(ctx))
	if !role.IsValid() {
		return permissions.Subject{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing actor role")
	}
	return permissions.Subject{UserID: userID, CompanyID: companyID, Role: role}, nil
}
