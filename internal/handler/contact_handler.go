package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/service"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

type contactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter) (*service.ContactInbox, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	Triage(ctx context.Context, id string, req dto.ContactTriageRequest) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, req dto.BulkDeleteRequest, actor *models.JWTClaims) (int64, error)
	ExportCSV(ctx context.Context, filter models.ContactFilter, actor *models.JWTClaims) ([]byte, error)
}

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	service contactService
}

// NewContactHandler creates a contact handler.
func NewContactHandler(svc contactService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// Submit godoc
// @Summary Send a contact message
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body dto.ContactRequest true "Message"
// @Success 201 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !bindJSON(c, &req, "invalid contact payload") {
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	contact, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "message received", contact)
}

// List godoc
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param status query string false "new, read, replied or archived"
// @Param search query string false "Text in name, email, subject or message"
// @Param startDate query string false "Earliest creation date"
// @Param endDate query string false "Latest creation date"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	filter, ok := contactFilter(c)
	if !ok {
		return
	}
	inbox, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inbox.Contacts, inbox.Pagination, map[string]interface{}{"statusCounts": inbox.StatusCounts})
}

// Get godoc
// @Summary Get a contact message
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} response.Envelope
// @Router /contact/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contact, nil)
}

// Triage godoc
// @Summary Update status or notes of a message
// @Tags Contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Param payload body dto.ContactTriageRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /contact/{id} [put]
func (h *ContactHandler) Triage(c *gin.Context) {
	var req dto.ContactTriageRequest
	if !bindJSON(c, &req, "invalid contact update") {
		return
	}
	contact, err := h.service.Triage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "contact updated", contact, nil)
}

// Delete godoc
// @Summary Delete a contact message
// @Tags Contact
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} response.Envelope
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "contact deleted", nil, nil)
}

// BulkDelete godoc
// @Summary Delete several contact messages
// @Tags Contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.BulkDeleteRequest true "IDs"
// @Success 200 {object} response.Envelope
// @Router /contact/bulk-delete [post]
func (h *ContactHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if !bindJSON(c, &req, "invalid bulk delete request") {
		return
	}
	removed, err := h.service.BulkDelete(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "contacts deleted", gin.H{"deletedCount": removed}, nil)
}

// ExportCSV godoc
// @Summary Export contact messages as CSV
// @Tags Contact
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /contact/export/csv [get]
func (h *ContactHandler) ExportCSV(c *gin.Context) {
	filter, ok := contactFilter(c)
	if !ok {
		return
	}
	data, err := h.service.ExportCSV(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, "contacts.csv", "text/csv; charset=utf-8", data)
}

func contactFilter(c *gin.Context) (models.ContactFilter, bool) {
	start, err := queryDate(c, "startDate")
	if err != nil {
		response.Error(c, err)
		return models.ContactFilter{}, false
	}
	end, err := queryDate(c, "endDate")
	if err != nil {
		response.Error(c, err)
		return models.ContactFilter{}, false
	}
	return models.ContactFilter{
		Status:    models.ContactStatus(strings.TrimSpace(c.Query("status"))),
		Search:    strings.TrimSpace(c.Query("search")),
		StartDate: start,
		EndDate:   end,
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "limit", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}, true
}
