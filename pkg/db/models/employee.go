package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is the HR record for a staff member. It may link to a User
// when the employee has application access.
type Employee struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	UserID    *uuid.UUID      `gorm:"column:user_id;type:uuid"`
	FullName  string          `gorm:"column:full_name;not null"`
	Position  string          `gorm:"column:position;not null"`
	Salary    decimal.Decimal `gorm:"column:salary;type:numeric(12,2);not null;default:0"`
	HiredOn   time.Time       `gorm:"column:hired_on;not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
