package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/middleware"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/service"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

// maxMultipartMemory is how much of a multipart body is buffered in memory;
// larger parts spill to temporary files.
const maxMultipartMemory = 32 << 20

// applicationFormParts are the multipart fields carrying JSON records.
var applicationFormParts = []string{
	"personalInfo", "locationInfo", "courseSelection", "education",
	"workExperience", "additionalInfo", "payment",
	"status", "statusNotes", "reviewNotes", "reviewerComments",
}

var applicationUploadSlots = []models.DocumentSlot{
	models.SlotResume, models.SlotTranscripts, models.SlotIDProof,
	models.SlotPassportPhoto, models.SlotRecommendationLetters,
}

type applicationService interface {
	Create(ctx context.Context, req dto.CreateApplicationRequest, uploads []service.Upload) (*models.ApplicationView, error)
	Update(ctx context.Context, id string, req dto.UpdateApplicationRequest, uploads []service.Upload, actor *models.JWTClaims) (*models.ApplicationView, error)
	Submit(ctx context.Context, id string, actor *models.JWTClaims) (*models.ApplicationView, error)
	TransitionStatus(ctx context.Context, id string, req dto.StatusTransitionRequest, actor *models.JWTClaims) (*models.ApplicationView, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	GetByID(ctx context.Context, id string) (*models.ApplicationView, error)
	GetByNumber(ctx context.Context, number string) (*models.ApplicationView, error)
	GetByEmail(ctx context.Context, email string) ([]models.ApplicationView, error)
	GetByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.ApplicationView, error)
	GetByProgram(ctx context.Context, program string) ([]models.ApplicationView, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationView, *models.Pagination, error)
	Statistics(ctx context.Context) (*models.ApplicationStatistics, bool, error)
	ExportCSV(ctx context.Context, filter models.ApplicationFilter, actor *models.JWTClaims) ([]byte, error)
	SummaryPDF(ctx context.Context, id string) ([]byte, string, error)
	DocumentURL(ctx context.Context, id string, slot models.DocumentSlot, index int, actor *models.JWTClaims) (*dto.DocumentURLResponse, error)
	Download(ctx context.Context, token string) (*service.AttachmentDownload, error)
}

// ApplicationHandler exposes the application intake workflow.
type ApplicationHandler struct {
	service applicationService
}

// NewApplicationHandler creates an application handler.
func NewApplicationHandler(svc applicationService) *ApplicationHandler {
	return &ApplicationHandler{service: svc}
}

// Create godoc
// @Summary Start an application
// @Description Creates a draft from a multipart form (JSON parts plus files) or a JSON body
// @Tags Applications
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dto.CreateApplicationRequest
	uploads, err := decodeApplicationRequest(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	view, err := h.service.Create(c.Request.Context(), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "application created", view)
}

// Update godoc
// @Summary Update an application
// @Description Partial update; status and review fields require an admin token
// @Tags Applications
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [put]
func (h *ApplicationHandler) Update(c *gin.Context) {
	var req dto.UpdateApplicationRequest
	uploads, err := decodeApplicationRequest(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Update(c.Request.Context(), c.Param("id"), req, uploads, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "application updated", view, nil)
}

// Submit godoc
// @Summary Submit an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /applications/{id}/submit [put]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	view, err := h.service.Submit(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "application submitted", view, nil)
}

// TransitionStatus godoc
// @Summary Change application status
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body dto.StatusTransitionRequest true "Transition"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) TransitionStatus(c *gin.Context) {
	var req dto.StatusTransitionRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	view, err := h.service.TransitionStatus(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "application status updated", view, nil)
}

// Delete godoc
// @Summary Delete an application
// @Tags Applications
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "application deleted", nil, nil)
}

// Get godoc
// @Summary Get an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	view, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// GetByNumber godoc
// @Summary Get an application by number
// @Tags Applications
// @Produce json
// @Param number path string true "Application number, e.g. APP-2026-00001"
// @Success 200 {object} response.Envelope
// @Router /applications/number/{number} [get]
func (h *ApplicationHandler) GetByNumber(c *gin.Context) {
	view, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// GetByEmail godoc
// @Summary List applications of an applicant
// @Tags Applications
// @Produce json
// @Param email path string true "Applicant email"
// @Success 200 {object} response.Envelope
// @Router /applications/user/{email} [get]
func (h *ApplicationHandler) GetByEmail(c *gin.Context) {
	h.respondList(c)(h.service.GetByEmail(c.Request.Context(), c.Param("email")))
}

// GetByStatus godoc
// @Summary List applications in a status
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status path string true "Status"
// @Success 200 {object} response.Envelope
// @Router /applications/status/{status} [get]
func (h *ApplicationHandler) GetByStatus(c *gin.Context) {
	h.respondList(c)(h.service.GetByStatus(c.Request.Context(), models.ApplicationStatus(c.Param("status"))))
}

// GetByProgram godoc
// @Summary List applications for a program
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program"
// @Success 200 {object} response.Envelope
// @Router /applications/program/{program} [get]
func (h *ApplicationHandler) GetByProgram(c *gin.Context) {
	h.respondList(c)(h.service.GetByProgram(c.Request.Context(), c.Param("program")))
}

func (h *ApplicationHandler) respondList(c *gin.Context) func([]models.ApplicationView, error) {
	return func(views []models.ApplicationView, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, views, nil, map[string]interface{}{"count": len(views)})
	}
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status"
// @Param program query string false "Program"
// @Param level query string false "Level"
// @Param year query int false "Intake year"
// @Param search query string false "Name, email or number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort column"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	views, pagination, err := h.service.List(c.Request.Context(), applicationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// Statistics godoc
// @Summary Application statistics
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /applications/statistics [get]
func (h *ApplicationHandler) Statistics(c *gin.Context) {
	stats, hit, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}

// ExportCSV godoc
// @Summary Export applications as CSV
// @Tags Applications
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Router /applications/export/csv [get]
func (h *ApplicationHandler) ExportCSV(c *gin.Context) {
	filter := applicationFilter(c)
	filter.Unpaged = true
	data, err := h.service.ExportCSV(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, "applications.csv", "text/csv; charset=utf-8", data)
}

// SummaryPDF godoc
// @Summary Printable application summary
// @Tags Applications
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {file} file
// @Router /applications/{id}/summary.pdf [get]
func (h *ApplicationHandler) SummaryPDF(c *gin.Context) {
	data, filename, err := h.service.SummaryPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendAttachment(c, filename, "application/pdf", data)
}

// DocumentURL godoc
// @Summary Signed download URL for an attachment
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param slot path string true "Document slot"
// @Param index query int false "Recommendation letter index"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/documents/{slot}/url [get]
func (h *ApplicationHandler) DocumentURL(c *gin.Context) {
	index := queryInt(c, "index", 0)
	res, err := h.service.DocumentURL(c.Request.Context(), c.Param("id"), models.DocumentSlot(c.Param("slot")), index, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Download godoc
// @Summary Download an attachment with a signed token
// @Tags Applications
// @Produce application/octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /files/download [get]
func (h *ApplicationHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Validation("token is required", []string{"token"}))
		return
	}
	file, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Reader.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, file.Reader, map[string]string{
		"Content-Disposition": attachmentDisposition(file.Filename),
		"Cache-Control":       "private, no-store",
	})
}

func applicationFilter(c *gin.Context) models.ApplicationFilter {
	return models.ApplicationFilter{
		Status:     models.ApplicationStatus(strings.TrimSpace(c.Query("status"))),
		Program:    strings.TrimSpace(c.Query("program")),
		Level:      strings.TrimSpace(c.Query("level")),
		IntakeYear: queryInt(c, "year", 0),
		Email:      strings.TrimSpace(c.Query("email")),
		Search:     strings.TrimSpace(c.Query("search")),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "limit", 20),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
}

// decodeApplicationRequest fills dest from a JSON body or from the JSON parts
// of a multipart form, and collects the uploaded files.
func decodeApplicationRequest(c *gin.Context, dest interface{}) ([]service.Upload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if c.Request.ContentLength == 0 {
			return nil, nil
		}
		if err := c.ShouldBindJSON(dest); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload")
		}
		return nil, nil
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart form")
	}
	form := c.Request.MultipartForm

	body := make(map[string]json.RawMessage)
	var invalid []string
	for _, key := range applicationFormParts {
		raw := strings.TrimSpace(formValue(form, key))
		if raw == "" {
			continue
		}
		if !json.Valid([]byte(raw)) {
			// Scalar fields such as status may arrive unquoted.
			quoted, _ := json.Marshal(raw)
			raw = string(quoted)
		}
		body[key] = json.RawMessage(raw)
	}
	if raw := strings.TrimSpace(formValue(form, "termsAgreed")); raw != "" {
		agreed, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, "termsAgreed")
		} else {
			body["termsAgreed"] = json.RawMessage(strconv.FormatBool(agreed))
		}
	}
	if len(invalid) > 0 {
		return nil, appErrors.Validation("invalid application payload", invalid)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to decode application form")
	}
	if err := json.Unmarshal(encoded, dest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload")
	}

	var uploads []service.Upload
	for _, slot := range applicationUploadSlots {
		for _, fh := range form.File[string(slot)] {
			uploads = append(uploads, formUpload(slot, fh))
		}
	}
	return uploads, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func formUpload(slot models.DocumentSlot, fh *multipart.FileHeader) service.Upload {
	return service.Upload{
		Slot:        slot,
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
