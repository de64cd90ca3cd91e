package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

type documentService interface {
	Add(ctx context.Context, req dto.DocumentRequest) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	ByCategory(ctx context.Context, category string) ([]models.Document, error)
	Search(ctx context.Context, query, category string) ([]models.Document, error)
	Recent(ctx context.Context, limit int) ([]models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	Update(ctx context.Context, id string, patch dto.DocumentPatch) (*models.Document, error)
	Delete(ctx context.Context, id string) error
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
	Stats(ctx context.Context) (*models.DocumentStats, error)
	DownloadInfo(ctx context.Context, id string) (*dto.DocumentDownload, error)
}

// DocumentHandler serves the document library.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(svc documentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// Add godoc
// @Summary Publish a document
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DocumentRequest true "Document"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /document/add [post]
func (h *DocumentHandler) Add(c *gin.Context) {
	var req dto.DocumentRequest
	if !bindJSON(c, &req, "invalid document payload") {
		return
	}
	doc, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "document added", doc)
}

// List godoc
// @Summary List documents
// @Tags Documents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /document/all [get]
func (h *DocumentHandler) List(c *gin.Context) {
	respondDocuments(c)(h.service.List(c.Request.Context()))
}

// ByCategory godoc
// @Summary List documents in a category
// @Tags Documents
// @Produce json
// @Param category path string true "Category"
// @Success 200 {object} response.Envelope
// @Router /document/category/{category} [get]
func (h *DocumentHandler) ByCategory(c *gin.Context) {
	respondDocuments(c)(h.service.ByCategory(c.Request.Context(), c.Param("category")))
}

// Search godoc
// @Summary Search documents
// @Tags Documents
// @Produce json
// @Param q query string false "Text to match in name or description"
// @Param category query string false "Category"
// @Success 200 {object} response.Envelope
// @Router /document/search [get]
func (h *DocumentHandler) Search(c *gin.Context) {
	respondDocuments(c)(h.service.Search(c.Request.Context(), c.Query("q"), c.Query("category")))
}

// Recent godoc
// @Summary Latest documents
// @Tags Documents
// @Produce json
// @Param limit query int false "Maximum number of documents"
// @Success 200 {object} response.Envelope
// @Router /document/recent [get]
func (h *DocumentHandler) Recent(c *gin.Context) {
	respondDocuments(c)(h.service.Recent(c.Request.Context(), queryInt(c, "limit", 0)))
}

// Get godoc
// @Summary Get a document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /document/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Update godoc
// @Summary Update a document
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param payload body dto.DocumentPatch true "Changes"
// @Success 200 {object} response.Envelope
// @Router /document/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	var patch dto.DocumentPatch
	if !bindJSON(c, &patch, "invalid document payload") {
		return
	}
	doc, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "document updated", doc, nil)
}

// Delete godoc
// @Summary Delete a document
// @Tags Documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /document/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "document deleted", nil, nil)
}

// Categories godoc
// @Summary Document counts per category
// @Tags Documents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /document/categories/count [get]
func (h *DocumentHandler) Categories(c *gin.Context) {
	counts, err := h.service.CategoryCounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Stats godoc
// @Summary Document library statistics
// @Tags Documents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /document/stats [get]
func (h *DocumentHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Download godoc
// @Summary Document download info
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /document/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	info, err := h.service.DownloadInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

func respondDocuments(c *gin.Context) func([]models.Document, error) {
	return func(docs []models.Document, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, docs, nil, map[string]interface{}{"count": len(docs)})
	}
}
