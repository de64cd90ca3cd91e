package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

type contactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, filter models.ContactFilter) ([]models.Contact, int, error)
	CountByStatus(ctx context.Context) ([]models.ContactStatusCount, error)
	UpdateTriage(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ContactInbox is a page of contact messages with the inbox breakdown.
type ContactInbox struct {
	Contacts     []models.Contact            `json:"contacts"`
	StatusCounts []models.ContactStatusCount `json:"statusCounts"`
	Pagination   *models.Pagination          `json:"-"`
}

// ContactService handles the public contact form and the admin inbox.
type ContactService struct {
	repo      contactRepository
	audit     auditLogger
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService creates a contact service. audit may be nil.
func NewContactService(repo contactRepository, audit auditLogger, exporter *ExportService, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = NewExportService(nil, nil)
	}
	return &ContactService{repo: repo, audit: audit, exporter: exporter, validator: validate, logger: logger}
}

// Submit stores a message from the public form.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (*models.Contact, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid contact payload")
	}

	contact := &models.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.ContactStatusNew,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, appErrors.Internal(err, "failed to save contact message")
	}
	s.logger.Info("contact message received", zap.String("contact_id", contact.ID))
	return contact, nil
}

// List returns a page of the inbox plus counts for every status.
func (s *ContactService) List(ctx context.Context, filter models.ContactFilter) (*ContactInbox, error) {
	if err := validateContactFilter(filter); err != nil {
		return nil, err
	}
	filter.Unpaged = false
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	contacts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list contacts")
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count contacts")
	}
	return &ContactInbox{
		Contacts:     contacts,
		StatusCounts: counts,
		Pagination:   models.NewPagination(filter.Page, filter.PageSize, total),
	}, nil
}

// Get returns a contact message.
func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "contact", "load")
	}
	return contact, nil
}

// Triage updates the status and admin notes of a message.
func (s *ContactService) Triage(ctx context.Context, id string, req dto.ContactTriageRequest) (*models.Contact, error) {
	if req.Status == nil && req.AdminNotes == nil {
		return nil, appErrors.Validation("status or adminNotes is required", []string{"status", "adminNotes"})
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid contact update")
	}
	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		contact.Status = models.ContactStatus(*req.Status)
	}
	if req.AdminNotes != nil {
		contact.AdminNotes = strings.TrimSpace(*req.AdminNotes)
	}
	if err := s.repo.UpdateTriage(ctx, contact); err != nil {
		return nil, lookupError(err, "contact", "update")
	}
	return contact, nil
}

// Delete removes one message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "contact", "delete")
	}
	return nil
}

// BulkDelete removes the listed messages and returns how many existed.
func (s *ContactService) BulkDelete(ctx context.Context, req dto.BulkDeleteRequest, actor *models.JWTClaims) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid bulk delete request")
	}
	removed, err := s.repo.DeleteMany(ctx, req.IDs)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to delete contacts")
	}
	payload, _ := json.Marshal(map[string]interface{}{"ids": req.IDs, "removed": removed})
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionContactBulkDelete, "contact", "", payload)
	return removed, nil
}

// ExportCSV renders every message matching filter as CSV.
func (s *ContactService) ExportCSV(ctx context.Context, filter models.ContactFilter, actor *models.JWTClaims) ([]byte, error) {
	if err := validateContactFilter(filter); err != nil {
		return nil, err
	}
	filter.Unpaged = true
	contacts, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list contacts")
	}
	data, err := s.exporter.ContactsCSV(contacts)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(map[string]int{"rows": len(contacts)})
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionContactsExport, "contact", "", payload)
	return data, nil
}

func validateContactFilter(filter models.ContactFilter) error {
	switch filter.Status {
	case "", "all", models.ContactStatusNew, models.ContactStatusRead, models.ContactStatusReplied, models.ContactStatusArchived:
	default:
		return appErrors.Validation("invalid contact status", []string{"status"})
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return appErrors.Validation("endDate must not precede startDate", []string{"endDate"})
	}
	return nil
}
