package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	"github.com/noah-isme/admissions-portal-api/pkg/storage"
)

// DefaultMaxAttachmentSize is the per-file ceiling when none is configured.
const DefaultMaxAttachmentSize int64 = 10 * 1024 * 1024

// allowedAttachmentTypes maps accepted extensions to their canonical MIME type.
var allowedAttachmentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var allowedAttachmentMIMEs = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// Upload is one incoming file bound to a document slot.
type Upload struct {
	Slot        models.DocumentSlot
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// StoredAttachment is an upload that now lives in storage.
type StoredAttachment struct {
	Slot models.DocumentSlot
	Meta models.FileMeta
}

// AttachmentConfig tunes attachment validation.
type AttachmentConfig struct {
	MaxFileSize int64
}

// AttachmentService validates uploads and moves them into durable storage.
type AttachmentService struct {
	backend storage.Backend
	metrics *MetricsService
	logger  *zap.Logger
	cfg     AttachmentConfig
	now     func() time.Time
}

// NewAttachmentService constructs the attachment manager.
func NewAttachmentService(backend storage.Backend, metrics *MetricsService, logger *zap.Logger, cfg AttachmentConfig) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxAttachmentSize
	}
	return &AttachmentService{backend: backend, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// Validate checks every upload before anything is written.
func (s *AttachmentService) Validate(uploads []Upload) error {
	perSlot := make(map[models.DocumentSlot]int)
	for _, up := range uploads {
		switch up.Slot {
		case models.SlotResume, models.SlotTranscripts, models.SlotIDProof, models.SlotPassportPhoto, models.SlotRecommendationLetters:
		default:
			return appErrors.Validation("unknown document slot", []string{"documents." + string(up.Slot)})
		}
		perSlot[up.Slot]++

		if _, err := s.contentType(up); err != nil {
			return err
		}
		if up.Size > s.cfg.MaxFileSize {
			return appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("%s exceeds the %d byte limit", up.Filename, s.cfg.MaxFileSize))
		}
	}
	for slot, count := range perSlot {
		if slot == models.SlotRecommendationLetters {
			if count > models.MaxRecommendationLetters {
				return appErrors.Validation(fmt.Sprintf("at most %d recommendation letters are allowed", models.MaxRecommendationLetters), []string{"documents.recommendationLetters"})
			}
			continue
		}
		if count > 1 {
			return appErrors.Validation(fmt.Sprintf("only one file is allowed for %s", slot), []string{"documents." + string(slot)})
		}
	}
	return nil
}

// Store writes uploads to the backend. When any write fails, files already written
// by this call are removed before the error is returned.
func (s *AttachmentService) Store(ctx context.Context, uploads []Upload) ([]StoredAttachment, error) {
	stored := make([]StoredAttachment, 0, len(uploads))
	for _, up := range uploads {
		meta, err := s.storeOne(ctx, up)
		if err != nil {
			s.Discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, StoredAttachment{Slot: up.Slot, Meta: meta})
	}
	s.metrics.AttachmentsStored(len(stored))
	return stored, nil
}

func (s *AttachmentService) storeOne(ctx context.Context, up Upload) (models.FileMeta, error) {
	if s.backend == nil {
		return models.FileMeta{}, appErrors.Clone(appErrors.ErrInternal, "attachment storage not configured")
	}
	contentType, err := s.contentType(up)
	if err != nil {
		return models.FileMeta{}, err
	}
	if up.Open == nil {
		return models.FileMeta{}, appErrors.Validation("file content missing", []string{"documents." + string(up.Slot)})
	}
	src, err := up.Open()
	if err != nil {
		return models.FileMeta{}, appErrors.Internal(err, "failed to read upload")
	}
	defer src.Close()

	key := s.storageKey(up.Slot, up.Filename)
	obj, err := s.backend.Save(ctx, key, io.LimitReader(src, s.cfg.MaxFileSize+1), contentType)
	if err != nil {
		return models.FileMeta{}, appErrors.Internal(err, "failed to store attachment")
	}
	if obj.Size > s.cfg.MaxFileSize {
		s.removeKey(ctx, key)
		return models.FileMeta{}, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("%s exceeds the %d byte limit", up.Filename, s.cfg.MaxFileSize))
	}

	return models.FileMeta{
		Filename:     key,
		OriginalName: filepath.Base(up.Filename),
		Path:         key,
		Size:         obj.Size,
		MimeType:     contentType,
		UploadedAt:   s.now().UTC(),
	}, nil
}

// Discard removes freshly stored attachments that will not be recorded.
func (s *AttachmentService) Discard(ctx context.Context, stored []StoredAttachment) {
	for _, att := range stored {
		s.removeKey(ctx, att.Meta.Path)
	}
}

func (s *AttachmentService) removeKey(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to discard attachment", zap.String("path", key), zap.Error(err))
	}
}

// Remove deletes stored files and returns the ones that could not be removed.
// Failures are logged and never returned as errors.
func (s *AttachmentService) Remove(ctx context.Context, files []models.FileMeta) []models.FileMeta {
	var failed []models.FileMeta
	for _, file := range files {
		if file.Path == "" {
			continue
		}
		if err := s.backend.Delete(ctx, file.Path); err != nil {
			s.logger.Warn("failed to delete attachment", zap.String("path", file.Path), zap.Error(err))
			s.metrics.AttachmentDeleteFailed()
			failed = append(failed, file)
		}
	}
	return failed
}

// DeleteKey removes one stored object. Used by the background cleanup queue.
func (s *AttachmentService) DeleteKey(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Open streams a stored attachment.
func (s *AttachmentService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Open(ctx, key)
}

// DirectURL returns a link straight to the blob when the backend can sign one
// (GCS). ok is false for backends that must be streamed through the API.
func (s *AttachmentService) DirectURL(key string, ttl time.Duration) (url string, ok bool, err error) {
	if s == nil {
		return "", false, nil
	}
	linker, supported := s.backend.(storage.DirectLinker)
	if !supported {
		return "", false, nil
	}
	url, err = linker.SignedURL(key, ttl)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

// ApplyAttachments records stored files into their document slots. Single slots are
// overwritten; uploaded recommendation letters replace the previous list.
func ApplyAttachments(docs *models.Documents, stored []StoredAttachment) {
	var letters []models.FileMeta
	for _, att := range stored {
		meta := att.Meta
		if att.Slot == models.SlotRecommendationLetters {
			letters = append(letters, meta)
			continue
		}
		docs.SetSlot(att.Slot, &meta)
	}
	if letters != nil {
		docs.RecommendationLetters = letters
	}
	if docs.RecommendationLetters == nil {
		docs.RecommendationLetters = []models.FileMeta{}
	}
}

func (s *AttachmentService) contentType(up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	canonical, ok := allowedAttachmentTypes[ext]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrUnsupportedFileType, fmt.Sprintf("%s: only PDF, DOC, DOCX, JPG, JPEG, PNG files are allowed", up.Filename))
	}
	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0]))
	if declared == "" || declared == "application/octet-stream" {
		return canonical, nil
	}
	if _, ok := allowedAttachmentMIMEs[declared]; !ok {
		return "", appErrors.Clone(appErrors.ErrUnsupportedFileType, fmt.Sprintf("%s: content type %s is not allowed", up.Filename, declared))
	}
	return declared, nil
}

// storageKey builds <slot>-<unix millis>-<random><ext>, independent of the client filename.
func (s *AttachmentService) storageKey(slot models.DocumentSlot, original string) string {
	ext := strings.ToLower(path.Ext(filepath.Base(original)))
	return fmt.Sprintf("%s-%d-%s%s", slot, s.now().UnixMilli(), randomSuffix(), ext)
}

func randomSuffix() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
