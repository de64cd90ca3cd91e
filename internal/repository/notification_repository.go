package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

const notificationColumns = `id, title, message, type, timestamp, created_at, updated_at`

// NotificationRepository persists portal notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if n.Timestamp.IsZero() {
		n.Timestamp = now
	}
	n.CreatedAt = now
	n.UpdatedAt = now

	const query = `INSERT INTO notifications (` + notificationColumns + `) VALUES (:id, :title, :message, :type, :timestamp, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// GetByID returns a notification.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	var n models.Notification
	query := fmt.Sprintf("SELECT %s FROM notifications WHERE id = $1", notificationColumns)
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// List returns a page of notifications, newest first, with the total match count.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	baseQuery := `FROM notifications WHERE 1=1`
	var args []interface{}
	if filter.Type != "" && filter.Type != "all" {
		args = append(args, filter.Type)
		baseQuery += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		baseQuery += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		baseQuery += fmt.Sprintf(" AND timestamp <= $%d", len(args))
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize, 50, 200)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY timestamp DESC LIMIT %d OFFSET %d", notificationColumns, baseQuery, pageSize, (page-1)*pageSize)

	items := make([]models.Notification, 0)
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	return items, total, nil
}

// Update rewrites a notification.
func (r *NotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	n.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notifications SET title = :title, message = :message, type = :type, timestamp = :timestamp, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, n)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAll removes every notification and returns how many were removed.
func (r *NotificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications`)
	if err != nil {
		return 0, fmt.Errorf("clear notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear notifications: %w", err)
	}
	return affected, nil
}
