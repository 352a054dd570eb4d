package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// User represents the canonical identity entity. Role plus CompanyID
// drive every authorization decision.
type User struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID     `gorm:"column:company_id;type:uuid;not null;index"`
	Email        string        `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string        `gorm:"column:password_hash;not null"`
	FullName     string        `gorm:"column:full_name;not null"`
	Phone        *string       `gorm:"column:phone"`
	Role         enums.AppRole `gorm:"column:role;type:text;not null;default:user"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time    `gorm:"column:last_login_at"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
