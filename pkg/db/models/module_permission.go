package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// ModulePermission is a per-user override on top of the role defaults.
// A row exists only when an admin granted or revoked access explicitly.
type ModulePermission struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID       `gorm:"column:company_id;type:uuid;not null;uniqueIndex:idx_module_perm_scope"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_module_perm_scope"`
	Module    enums.AppModule `gorm:"column:module;type:text;not null;uniqueIndex:idx_module_perm_scope"`
	CanView   bool            `gorm:"column:can_view;not null;default:false"`
	CanCreate bool            `gorm:"column:can_create;not null;default:false"`
	CanEdit   bool            `gorm:"column:can_edit;not null;default:false"`
	CanDelete bool            `gorm:"column:can_delete;not null;default:false"`
	GrantedBy uuid.UUID       `gorm:"column:granted_by;type:uuid;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
