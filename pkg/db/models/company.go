package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant root. Every domain row carries its ID.
type Company struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:text;not null"`
	TaxID     *string    `gorm:"column:tax_id"`
	Address   *string    `gorm:"column:address"`
	Phone     *string    `gorm:"column:phone"`
	Email     *string    `gorm:"column:email"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	TrialEnds *time.Time `gorm:"column:trial_ends_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
