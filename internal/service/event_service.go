package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

type eventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	ListActive(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id string, activeOnly bool) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Deactivate(ctx context.Context, id string) error
}

// EventService manages institutional events. Deleted events are only deactivated.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService creates an event service.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns active events, soonest first.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list events")
	}
	return events, nil
}

// Get returns an active event.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, lookupError(err, "event", "load")
	}
	return event, nil
}

// Create schedules a new event. The date must lie in the future.
func (s *EventService) Create(ctx context.Context, req dto.EventRequest) (*models.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	if err := s.checkSchedule(req.Date, req.Attendees, req.MaxAttendees); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Date:         req.Date.UTC(),
		Time:         req.Time,
		Location:     req.Location,
		Category:     req.Category,
		Attendees:    req.Attendees,
		MaxAttendees: req.MaxAttendees,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Internal(err, "failed to create event")
	}
	return event, nil
}

// Update applies a partial update to an active event.
func (s *EventService) Update(ctx context.Context, id string, patch dto.EventPatch) (*models.Event, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid event payload")
	}
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dateChanged := false
	if patch.Date != nil {
		dateChanged = !patch.Date.Equal(event.Date)
		event.Date = patch.Date.UTC()
	}
	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Image != nil {
		event.Image = *patch.Image
	}
	if patch.Time != nil {
		event.Time = *patch.Time
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Attendees != nil {
		event.Attendees = *patch.Attendees
	}
	if patch.MaxAttendees != nil {
		event.MaxAttendees = *patch.MaxAttendees
	}

	if dateChanged {
		if err := s.checkSchedule(event.Date, event.Attendees, event.MaxAttendees); err != nil {
			return nil, err
		}
	} else if event.Attendees > event.MaxAttendees {
		return nil, appErrors.Validation("attendees cannot exceed maxAttendees", []string{"attendees"})
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, lookupError(err, "event", "update")
	}
	return event, nil
}

// Delete deactivates an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return lookupError(err, "event", "delete")
	}
	s.logger.Info("event deactivated", zap.String("event_id", id))
	return nil
}

func (s *EventService) checkSchedule(date time.Time, attendees, max int) error {
	if !date.After(s.now()) {
		return appErrors.Validation("event date must be in the future", []string{"date"})
	}
	if attendees > max {
		return appErrors.Validation("attendees cannot exceed maxAttendees", []string{"attendees"})
	}
	return nil
}
