package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

type notificationService interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Notification, error)
	Create(ctx context.Context, req dto.NotificationRequest) (*models.Notification, error)
	Update(ctx context.Context, id string, patch dto.NotificationPatch) (*models.Notification, error)
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context, actor *models.JWTClaims) (int64, error)
}

// NotificationHandler serves portal notifications.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(svc notificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param type query string false "success, warning, error or info"
// @Param startDate query string false "Earliest timestamp"
// @Param endDate query string false "Latest timestamp"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notification [get]
func (h *NotificationHandler) List(c *gin.Context) {
	start, err := queryDate(c, "startDate")
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := queryDate(c, "endDate")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.NotificationFilter{
		Type:      strings.TrimSpace(c.Query("type")),
		StartDate: start,
		EndDate:   end,
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "limit", 50),
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a notification
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /notification/{id} [get]
func (h *NotificationHandler) Get(c *gin.Context) {
	n, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, n, nil)
}

// Create godoc
// @Summary Create a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.NotificationRequest true "Notification"
// @Success 201 {object} response.Envelope
// @Router /notification [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req dto.NotificationRequest
	if !bindJSON(c, &req, "invalid notification payload") {
		return
	}
	n, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "notification created", n)
}

// Update godoc
// @Summary Update a notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Param payload body dto.NotificationPatch true "Changes"
// @Success 200 {object} response.Envelope
// @Router /notification/{id} [put]
func (h *NotificationHandler) Update(c *gin.Context) {
	var patch dto.NotificationPatch
	if !bindJSON(c, &patch, "invalid notification payload") {
		return
	}
	n, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "notification updated", n, nil)
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope
// @Router /notification/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "notification deleted", nil, nil)
}

// ClearAll godoc
// @Summary Delete every notification
// @Tags Notifications
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /notification [delete]
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	removed, err := h.service.ClearAll(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "notifications cleared", gin.H{"deletedCount": removed}, nil)
}
