package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service answers permission checks and manages per-user overrides.
type Service interface {
	Can(ctx context.Context, subject Subject, module enums.AppModule, action enums.PermissionAction) (bool, error)
	Grant(ctx context.Context, actor Subject, input GrantInput) (*models.ModulePermission, error)
	Revoke(ctx context.Context, actor Subject, userID uuid.UUID, module enums.AppModule) error
	ListForUser(ctx context.Context, companyID, userID uuid.UUID) ([]models.ModulePermission, error)
}

// Subject is the user a check or grant applies to.
type Subject struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
	Role      enums.AppRole
}

// GrantInput sets the override flags for one user/module pair.
type GrantInput struct {
	UserID    uuid.UUID
	Module    enums.AppModule
	CanView   bool
	CanCreate bool
	CanEdit   bool
	CanDelete bool
}

type service struct {
	repo *Repository
}

// NewService constructs the permissions service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("permissions repository required")
	}
	return &service{repo: repo}, nil
}

// Can resolves a permission: an explicit override row wins, otherwise
// the role default applies. Admin roles bypass overrides entirely.
func (s *service) Can(ctx context.Context, subject Subject, module enums.AppModule, action enums.PermissionAction) (bool, error) {
	if !module.IsValid() || !action.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid module or action")
	}
	if subject.Role == enums.AppRoleSuperAdmin || subject.Role == enums.AppRoleCompanyAdmin {
		return true, nil
	}

	override, err := s.repo.Find(ctx, subject.CompanyID, subject.UserID, module)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DefaultCan(subject.Role, module, action), nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load permission override")
	}

	switch action {
	case enums.PermissionActionView:
		return override.CanView, nil
	case enums.PermissionActionCreate:
		return override.CanCreate, nil
	case enums.PermissionActionEdit:
		return override.CanEdit, nil
	case enums.PermissionActionDelete:
		return override.CanDelete, nil
	default:
		return false, nil
	}
}

func (s *service) Grant(ctx context.Context, actor Subject, input GrantInput) (*models.ModulePermission, error) {
	if actor.Role != enums.AppRoleSuperAdmin && actor.Role != enums.AppRoleCompanyAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can manage permissions")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.Module.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid module")
	}

	row := &models.ModulePermission{
		ID:        uuid.New(),
		CompanyID: actor.CompanyID,
		UserID:    input.UserID,
		Module:    input.Module,
		CanView:   input.CanView,
		CanCreate: input.CanCreate,
		CanEdit:   input.CanEdit,
		CanDelete: input.CanDelete,
		GrantedBy: actor.UserID,
	}
	saved, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert permission")
	}
	return saved, nil
}

func (s *service) Revoke(ctx context.Context, actor Subject, userID uuid.UUID, module enums.AppModule) error {
	if actor.Role != enums.AppRoleSuperAdmin && actor.Role != enums.AppRoleCompanyAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins can manage permissions")
	}
	affected, err := s.repo.Delete(ctx, actor.CompanyID, userID, module)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete permission")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "permission override not found")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, companyID, userID uuid.UUID) ([]models.ModulePermission, error) {
	if companyID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	rows, err := s.repo.ListForUser(ctx, companyID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list permissions")
	}
	return rows, nil
}
