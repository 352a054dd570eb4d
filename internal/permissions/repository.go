package permissions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
)

// Repository owns the module_permissions override rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find loads the override for one user/module pair.
func (r *Repository) Find(ctx context.Context, companyID, userID uuid.UUID, module enums.AppModule) (*models.ModulePermission, error) {
	var row models.ModulePermission
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND module = ?", companyID, userID, module).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert inserts or replaces the override flags for a user/module pair.
func (r *Repository) Upsert(ctx context.Context, row *models.ModulePermission) (*models.ModulePermission, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "user_id"}, {Name: "module"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"can_view", "can_create", "can_edit", "can_delete", "granted_by", "updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, row.CompanyID, row.UserID, row.Module)
}

// Delete removes an override row.
func (r *Repository) Delete(ctx context.Context, companyID, userID uuid.UUID, module enums.AppModule) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND module = ?", companyID, userID, module).
		Delete(&models.ModulePermission{})
	return res.RowsAffected, res.Error
}

// ListForUser returns all override rows for the user.
func (r *Repository) ListForUser(ctx context.Context, companyID, userID uuid.UUID) ([]models.ModulePermission, error) {
	var rows []models.ModulePermission
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Order("module ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
