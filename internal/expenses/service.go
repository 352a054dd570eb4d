package expenses

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service records operating costs that dashboards net against revenue.
type Service interface {
	Create(ctx context.Context, companyID, createdBy uuid.UUID, input CreateInput) (*models.Expense, error)
	Delete(ctx context.Context, companyID, expenseID uuid.UUID) error
	Get(ctx context.Context, companyID, expenseID uuid.UUID) (*models.Expense, error)
	ListBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]models.Expense, error)
	TotalBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	SummaryByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]CategoryTotal, error)
}

// CategoryTotal is one row of the per-category expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// CreateInput holds the payload for a new expense.
type CreateInput struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	IncurredOn  time.Time
}

type service struct {
	db *gorm.DB
}

// NewService constructs the expense service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

func (s *service) Create(ctx context.Context, companyID, createdBy uuid.UUID, input CreateInput) (*models.Expense, error) {
	if companyID == uuid.Nil || createdBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	if strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category and description are required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.IncurredOn.IsZero() {
		input.IncurredOn = time.Now().UTC()
	}

	expense := &models.Expense{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount.Round(2),
		IncurredOn:  input.IncurredOn,
		CreatedBy:   createdBy,
	}
	if err := s.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert expense")
	}
	return expense, nil
}

func (s *service) Delete(ctx context.Context, companyID, expenseID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", expenseID, companyID).
		Delete(&models.Expense{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: delete expense")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, companyID, expenseID uuid.UUID) (*models.Expense, error) {
	if companyID == uuid.Nil || expenseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and expense id are required")
	}
	var expense models.Expense
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&expense, "id = ?", expenseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load expense")
	}
	return &expense, nil
}

func (s *service) ListBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]models.Expense, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window must end after it starts")
	}
	var expenses []models.Expense
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND incurred_on >= ? AND incurred_on < ?", companyID, from, to).
		Order("incurred_on DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list expenses")
	}
	return expenses, nil
}

// TotalBetween sums the window in decimal space, matching how sales
// stats are aggregated.
func (s *service) TotalBetween(ctx context.Context, companyID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	expenses, err := s.ListBetween(ctx, companyID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total, nil
}

// SummaryByCategory groups the window's expenses by category, largest
// spend first.
func (s *service) SummaryByCategory(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]CategoryTotal, error) {
	expenses, err := s.ListBetween(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(expenses))
	summary := make([]CategoryTotal, 0, len(expenses))
	for _, expense := range expenses {
		i, seen := index[expense.Category]
		if !seen {
			index[expense.Category] = len(summary)
			summary = append(summary, CategoryTotal{Category: expense.Category})
			i = len(summary) - 1
		}
		summary[i].Total = summary[i].Total.Add(expense.Amount)
		summary[i].Count++
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Total.GreaterThan(summary[j].Total)
	})
	return summary, nil
}
