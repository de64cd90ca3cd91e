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

const eventColumns = `id, title, description, image, date, time, location, category, attendees, max_attendees, is_active, created_at, updated_at`

// EventRepository persists institutional events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	const query = `INSERT INTO events (` + eventColumns + `) VALUES (:id, :title, :description, :image, :date, :time, :location, :category, :attendees, :max_attendees, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListActive returns active events, soonest first.
func (r *EventRepository) ListActive(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	query := fmt.Sprintf("SELECT %s FROM events WHERE is_active = TRUE ORDER BY date ASC", eventColumns)
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetByID returns an event. When activeOnly is set, inactive events are not found.
func (r *EventRepository) GetByID(ctx context.Context, id string, activeOnly bool) (*models.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, sql.ErrNoRows
	}
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1", eventColumns)
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

// Update rewrites the editable fields of an event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE events SET title = :title, description = :description, image = :image, date = :date, time = :time, location = :location, category = :category, attendees = :attendees, max_attendees = :max_attendees, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate hides an event without removing it.
func (r *EventRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return sql.ErrNoRows
	}
	res, err := r.db.ExecContext(ctx, `UPDATE events SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate event: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
