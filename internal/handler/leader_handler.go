package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

type leaderService interface {
	Add(ctx context.Context, req dto.LeaderRequest) (*models.Leader, error)
	List(ctx context.Context) ([]models.Leader, error)
	Get(ctx context.Context, position int) (*models.Leader, error)
	Update(ctx context.Context, position int, patch dto.LeaderPatch) (*models.Leader, error)
	Delete(ctx context.Context, position int) error
}

// LeaderHandler serves the leadership page. Leaders are addressed by position.
type LeaderHandler struct {
	service leaderService
}

// NewLeaderHandler creates a leader handler.
func NewLeaderHandler(svc leaderService) *LeaderHandler {
	return &LeaderHandler{service: svc}
}

// Add godoc
// @Summary Add a leader
// @Tags Leaders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.LeaderRequest true "Leader"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leader/add [post]
func (h *LeaderHandler) Add(c *gin.Context) {
	var req dto.LeaderRequest
	if !bindJSON(c, &req, "invalid leader payload") {
		return
	}
	leader, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "leader added", leader)
}

// List godoc
// @Summary List leaders
// @Tags Leaders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leader/all [get]
func (h *LeaderHandler) List(c *gin.Context) {
	leaders, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leaders, nil)
}

// Get godoc
// @Summary Get a leader
// @Tags Leaders
// @Produce json
// @Param position path int true "Position"
// @Success 200 {object} response.Envelope
// @Router /leader/{position} [get]
func (h *LeaderHandler) Get(c *gin.Context) {
	position, ok := pathInt(c, "position")
	if !ok {
		return
	}
	leader, err := h.service.Get(c.Request.Context(), position)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leader, nil)
}

// Update godoc
// @Summary Update a leader
// @Tags Leaders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param position path int true "Position"
// @Param payload body dto.LeaderPatch true "Changes"
// @Success 200 {object} response.Envelope
// @Router /leader/{position} [put]
func (h *LeaderHandler) Update(c *gin.Context) {
	position, ok := pathInt(c, "position")
	if !ok {
		return
	}
	var patch dto.LeaderPatch
	if !bindJSON(c, &patch, "invalid leader payload") {
		return
	}
	leader, err := h.service.Update(c.Request.Context(), position, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "leader updated", leader, nil)
}

// Delete godoc
// @Summary Delete a leader
// @Tags Leaders
// @Security BearerAuth
// @Param position path int true "Position"
// @Success 200 {object} response.Envelope
// @Router /leader/{position} [delete]
func (h *LeaderHandler) Delete(c *gin.Context) {
	position, ok := pathInt(c, "position")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), position); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "leader deleted", nil, nil)
}
