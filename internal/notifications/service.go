package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ventaflow/ventaflow-backend/pkg/db/models"
	"github.com/ventaflow/ventaflow-backend/pkg/enums"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// Service delivers in-app notifications to users.
type Service interface {
	Notify(ctx context.Context, input NotifyInput) (*models.Notification, error)
	ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, companyID, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, companyID, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) (int64, error)
}

// NotifyInput is the payload for a new notification.
type NotifyInput struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Type      enums.NotificationType
	Title     string
	Message   string
	Link      *string
}

const defaultListLimit = 50

type service struct {
	db *gorm.DB
}

// NewService constructs the notification service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

func (s *service) Notify(ctx context.Context, input NotifyInput) (*models.Notification, error) {
	if input.CompanyID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and message are required")
	}
	if input.Type == "" {
		input.Type = enums.NotificationTypeInfo
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid notification type %q", input.Type))
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		CompanyID: input.CompanyID,
		UserID:    input.UserID,
		Type:      input.Type,
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
		Link:      input.Link,
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert notification")
	}
	return notification, nil
}

func (s *service) ListForUser(ctx context.Context, companyID, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	if companyID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := s.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list notifications")
	}
	return notifications, nil
}

func (s *service) UnreadCount(ctx context.Context, companyID, userID uuid.UUID) (int64, error) {
	if companyID == uuid.Nil || userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("company_id = ? AND user_id = ? AND read_at IS NULL", companyID, userID).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count unread notifications")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, userID, notificationID uuid.UUID) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND company_id = ? AND user_id = ? AND read_at IS NULL", notificationID, companyID, userID).
		Update("read_at", now)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: mark notification read")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found or already read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) (int64, error) {
	if companyID == uuid.Nil || userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "company id and user id are required")
	}
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("company_id = ? AND user_id = ? AND read_at IS NULL", companyID, userID).
		Update("read_at", now)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: mark all notifications read")
	}
	return res.RowsAffected, nil
}
