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

type galleryService interface {
	List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.GalleryItem, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	Add(ctx context.Context, req dto.GalleryItemRequest) (*models.GalleryItem, error)
	BulkAdd(ctx context.Context, req dto.GalleryBulkRequest) ([]models.GalleryItem, error)
	Update(ctx context.Context, id string, patch dto.GalleryItemPatch) (*models.GalleryItem, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.GalleryStats, error)
}

// GalleryHandler serves the image gallery.
type GalleryHandler struct {
	service galleryService
}

// NewGalleryHandler creates a gallery handler.
func NewGalleryHandler(svc galleryService) *GalleryHandler {
	return &GalleryHandler{service: svc}
}

// List godoc
// @Summary List gallery items
// @Tags Gallery
// @Produce json
// @Param category query string false "Category"
// @Param search query string false "Text in title or description"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sortBy query string false "createdAt, title or category"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /gallery [get]
func (h *GalleryHandler) List(c *gin.Context) {
	filter := models.GalleryFilter{
		Category:  strings.TrimSpace(c.Query("category")),
		Search:    strings.TrimSpace(c.Query("search")),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "limit", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a gallery item
// @Tags Gallery
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [get]
func (h *GalleryHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Categories godoc
// @Summary Gallery categories with counts
// @Tags Gallery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gallery/categories [get]
func (h *GalleryHandler) Categories(c *gin.Context) {
	counts, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// Add godoc
// @Summary Add a gallery item
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GalleryItemRequest true "Item"
// @Success 201 {object} response.Envelope
// @Router /gallery [post]
func (h *GalleryHandler) Add(c *gin.Context) {
	var req dto.GalleryItemRequest
	if !bindJSON(c, &req, "invalid gallery payload") {
		return
	}
	item, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "gallery item added", item)
}

// BulkAdd godoc
// @Summary Add several gallery items
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GalleryBulkRequest true "Items"
// @Success 201 {object} response.Envelope
// @Router /gallery/bulk [post]
func (h *GalleryHandler) BulkAdd(c *gin.Context) {
	var req dto.GalleryBulkRequest
	if !bindJSON(c, &req, "invalid gallery payload") {
		return
	}
	items, err := h.service.BulkAdd(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "gallery items added", items)
}

// Update godoc
// @Summary Update a gallery item
// @Tags Gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param payload body dto.GalleryItemPatch true "Changes"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [put]
func (h *GalleryHandler) Update(c *gin.Context) {
	var patch dto.GalleryItemPatch
	if !bindJSON(c, &patch, "invalid gallery payload") {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "gallery item updated", item, nil)
}

// Delete godoc
// @Summary Delete a gallery item
// @Tags Gallery
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} response.Envelope
// @Router /gallery/{id} [delete]
func (h *GalleryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "gallery item deleted", nil, nil)
}

// Stats godoc
// @Summary Gallery overview
// @Tags Gallery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /gallery/stats/overview [get]
func (h *GalleryHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
