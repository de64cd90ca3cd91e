package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

const defaultNotificationType = "info"

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	Update(ctx context.Context, n *models.Notification) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// NotificationService manages portal announcements.
type NotificationService struct {
	repo      notificationRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService creates a notification service. audit may be nil.
func NewNotificationService(repo notificationRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns a page of notifications, newest first.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	if filter.Type != "" && filter.Type != "all" && !validNotificationType(filter.Type) {
		return nil, nil, appErrors.Validation("invalid notification type", []string{"type"})
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, nil, appErrors.Validation("endDate must not precede startDate", []string{"endDate"})
	}
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 50, 200)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list notifications")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a notification.
func (s *NotificationService) Get(ctx context.Context, id string) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "notification", "load")
	}
	return n, nil
}

// Create stores a notification; the type defaults to info.
func (s *NotificationService) Create(ctx context.Context, req dto.NotificationRequest) (*models.Notification, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid notification payload")
	}
	n := &models.Notification{Title: req.Title, Message: req.Message, Type: req.Type}
	if n.Type == "" {
		n.Type = defaultNotificationType
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, appErrors.Internal(err, "failed to create notification")
	}
	return n, nil
}

// Update applies a partial update.
func (s *NotificationService) Update(ctx context.Context, id string, patch dto.NotificationPatch) (*models.Notification, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid notification payload")
	}
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		n.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Message != nil {
		n.Message = strings.TrimSpace(*patch.Message)
	}
	if patch.Type != nil {
		n.Type = *patch.Type
	}
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, lookupError(err, "notification", "update")
	}
	return n, nil
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "notification", "delete")
	}
	return nil
}

// ClearAll removes every notification and returns how many were removed.
func (s *NotificationService) ClearAll(ctx context.Context, actor *models.JWTClaims) (int64, error) {
	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to clear notifications")
	}
	s.logger.Info("notifications cleared", zap.Int64("removed", removed))
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionNotificationsWipe, "notification", "", []byte(fmt.Sprintf(`{"removed":%d}`, removed)))
	return removed, nil
}

// ParseDateParam accepts RFC3339 or a plain YYYY-MM-DD date. Blank input yields nil.
func ParseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date: "+value)
}

func validNotificationType(t string) bool {
	for _, known := range models.NotificationTypes {
		if known == t {
			return true
		}
	}
	return false
}
