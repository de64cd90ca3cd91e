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

// recentUploadWindow bounds the "recent uploads" figure of the gallery overview.
const recentUploadWindow = 30 * 24 * time.Hour

type galleryRepository interface {
	Create(ctx context.Context, item *models.GalleryItem) error
	CreateBatch(ctx context.Context, items []models.GalleryItem) error
	GetByID(ctx context.Context, id string) (*models.GalleryItem, error)
	List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, int, error)
	Update(ctx context.Context, item *models.GalleryItem) error
	Delete(ctx context.Context, id string) error
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// GalleryService manages the public image gallery.
type GalleryService struct {
	repo      galleryRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGalleryService creates a gallery service.
func NewGalleryService(repo galleryRepository, validate *validator.Validate, logger *zap.Logger) *GalleryService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns a page of gallery items.
func (s *GalleryService) List(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryItem, *models.Pagination, error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list gallery items")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns one gallery item.
func (s *GalleryService) Get(ctx context.Context, id string) (*models.GalleryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "gallery item", "load")
	}
	return item, nil
}

// Categories returns every category with its item count.
func (s *GalleryService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count gallery categories")
	}
	return counts, nil
}

// Add stores a single item.
func (s *GalleryService) Add(ctx context.Context, req dto.GalleryItemRequest) (*models.GalleryItem, error) {
	item, err := s.buildItem(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create gallery item")
	}
	return item, nil
}

// BulkAdd stores up to MaxGalleryBulkItems items atomically.
func (s *GalleryService) BulkAdd(ctx context.Context, req dto.GalleryBulkRequest) ([]models.GalleryItem, error) {
	if len(req.Items) == 0 {
		return nil, appErrors.Validation("at least one gallery item is required", []string{"items"})
	}
	if len(req.Items) > models.MaxGalleryBulkItems {
		return nil, appErrors.Validation("too many gallery items in one request", []string{"items"})
	}
	items := make([]models.GalleryItem, 0, len(req.Items))
	for _, r := range req.Items {
		item, err := s.buildItem(r)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return nil, appErrors.Internal(err, "failed to create gallery items")
	}
	s.logger.Info("gallery items added", zap.Int("count", len(items)))
	return items, nil
}

// Update applies a partial update.
func (s *GalleryService) Update(ctx context.Context, id string, patch dto.GalleryItemPatch) (*models.GalleryItem, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid gallery payload")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		item.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.ImageURL != nil {
		item.ImageURL = *patch.ImageURL
	}
	if patch.AltText != nil {
		item.AltText = strings.TrimSpace(*patch.AltText)
	}
	if item.Category == "" {
		item.Category = models.DefaultGalleryCategory
	}
	if item.AltText == "" {
		item.AltText = item.Title
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, lookupError(err, "gallery item", "update")
	}
	return item, nil
}

// Delete removes an item.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "gallery item", "delete")
	}
	return nil
}

// Stats returns the gallery overview.
func (s *GalleryService) Stats(ctx context.Context) (*models.GalleryStats, error) {
	total, err := s.repo.CountSince(ctx, time.Time{})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count gallery items")
	}
	recent, err := s.repo.CountSince(ctx, s.now().UTC().Add(-recentUploadWindow))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count gallery items")
	}
	byCategory, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &models.GalleryStats{Total: total, RecentUploads: recent, ByCategory: byCategory}, nil
}

func (s *GalleryService) buildItem(req dto.GalleryItemRequest) (*models.GalleryItem, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid gallery payload")
	}
	item := &models.GalleryItem{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		ImageURL:    req.ImageURL,
		AltText:     strings.TrimSpace(req.AltText),
	}
	if item.Category == "" {
		item.Category = models.DefaultGalleryCategory
	}
	if item.AltText == "" {
		item.AltText = item.Title
	}
	return item, nil
}
