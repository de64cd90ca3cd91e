package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, req dto.EventRequest) (*models.Event, error)
	Update(ctx context.Context, id string, patch dto.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// EventHandler serves institutional events.
type EventHandler struct {
	service eventService
}

// NewEventHandler creates an event handler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary List upcoming events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/events [get]
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil, map[string]interface{}{"count": len(events)})
}

// Get godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /api/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Router /api/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.EventRequest
	if !bindJSON(c, &req, "invalid event payload") {
		return
	}
	event, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "event created", event)
}

// Update godoc
// @Summary Update an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.EventPatch true "Changes"
// @Success 200 {object} response.Envelope
// @Router /api/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var patch dto.EventPatch
	if !bindJSON(c, &patch, "invalid event payload") {
		return
	}
	event, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "event updated", event, nil)
}

// Delete godoc
// @Summary Cancel an event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /api/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "event deleted", nil, nil)
}
