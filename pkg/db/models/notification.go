package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to a user.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID              `gorm:"type:uuid;column:company_id;not null;index"`
	UserID    uuid.UUID              `gorm:"type:uuid;column:user_id;not null;index"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null;default:'info'"`
	Title     string                 `gorm:"type:text;not null"`
	Message   string                 `gorm:"type:text;not null"`
	Link      *string                `gorm:"type:text"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
