package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/repository"
	"github.com/noah-isme/admissions-portal-api/pkg/database"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

const (
	defaultRecentDocuments = 10
	statsRecentDocuments   = 5
)

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	CountByFileType(ctx context.Context) ([]models.CategoryCount, error)
}

// DocumentService manages the downloadable document library.
type DocumentService struct {
	repo      documentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentService creates a document service.
func NewDocumentService(repo documentRepository, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{repo: repo, validator: validate, logger: logger}
}

// Add publishes a new document. Names are unique.
func (s *DocumentService) Add(ctx context.Context, req dto.DocumentRequest) (*models.Document, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid document payload")
	}
	if err := s.ensureUniqueName(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	doc := &models.Document{
		Name:        req.Name,
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		FileSize:    req.FileSize,
		FileType:    req.FileType,
		URL:         req.URL,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, s.writeError(err, "create")
	}
	s.logger.Info("document added", zap.String("document_id", doc.ID), zap.String("name", doc.Name))
	return doc, nil
}

// List returns every document, newest upload first.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	return s.search(ctx, models.DocumentFilter{})
}

// ByCategory returns the documents in one category.
func (s *DocumentService) ByCategory(ctx context.Context, category string) ([]models.Document, error) {
	if !validDocumentCategory(category) {
		return nil, appErrors.Validation("invalid document category", []string{"category"})
	}
	return s.search(ctx, models.DocumentFilter{Category: category})
}

// Search matches query against name and description, optionally within a category.
func (s *DocumentService) Search(ctx context.Context, query, category string) ([]models.Document, error) {
	if category != "" && !validDocumentCategory(category) {
		return nil, appErrors.Validation("invalid document category", []string{"category"})
	}
	return s.search(ctx, models.DocumentFilter{Query: strings.TrimSpace(query), Category: category})
}

// Recent returns the latest uploads; limit defaults to 10.
func (s *DocumentService) Recent(ctx context.Context, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = defaultRecentDocuments
	}
	return s.search(ctx, models.DocumentFilter{Limit: limit})
}

// Get returns a document by id.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "document", "load")
	}
	return doc, nil
}

// Update applies a partial update. The upload date is kept.
func (s *DocumentService) Update(ctx context.Context, id string, patch dto.DocumentPatch) (*models.Document, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid document payload")
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, appErrors.Validation("invalid document payload", []string{"name"})
		}
		if name != doc.Name {
			if err := s.ensureUniqueName(ctx, name, doc.ID); err != nil {
				return nil, err
			}
		}
		doc.Name = name
	}
	if patch.Category != nil {
		doc.Category = *patch.Category
	}
	if patch.Description != nil {
		doc.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.FileSize != nil {
		doc.FileSize = *patch.FileSize
	}
	if patch.FileType != nil {
		doc.FileType = *patch.FileType
	}
	if patch.URL != nil {
		doc.URL = *patch.URL
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, s.writeError(err, "update")
	}
	return doc, nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "document", "delete")
	}
	s.logger.Info("document deleted", zap.String("document_id", id))
	return nil
}

// CategoryCounts returns the number of documents per category.
func (s *DocumentService) CategoryCounts(ctx context.Context) ([]models.CategoryCount, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count documents")
	}
	return counts, nil
}

// Stats summarises the library.
func (s *DocumentService) Stats(ctx context.Context) (*models.DocumentStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count documents")
	}
	byCategory, err := s.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.CountByFileType(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count documents")
	}
	recent, err := s.search(ctx, models.DocumentFilter{Limit: statsRecentDocuments})
	if err != nil {
		return nil, err
	}
	return &models.DocumentStats{Total: total, ByCategory: byCategory, ByFileType: byType, Recent: recent}, nil
}

// DownloadInfo returns what a client needs to fetch the document.
func (s *DocumentService) DownloadInfo(ctx context.Context, id string) (*dto.DocumentDownload, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.DocumentDownload{ID: doc.ID, Name: doc.Name, URL: doc.URL, FileType: doc.FileType, FileSize: doc.FileSize}, nil
}

func (s *DocumentService) search(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	docs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list documents")
	}
	return docs, nil
}

func (s *DocumentService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to check document name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "a document with this name already exists")
	}
	return nil
}

func (s *DocumentService) writeError(err error, action string) error {
	if database.IsUniqueViolation(err, repository.DocumentNameConstraint) {
		return appErrors.Clone(appErrors.ErrConflict, "a document with this name already exists")
	}
	return lookupError(err, "document", action)
}

func validDocumentCategory(category string) bool {
	for _, c := range models.DocumentCategories {
		if c == category {
			return true
		}
	}
	return false
}
