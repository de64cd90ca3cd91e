package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/repository"
	"github.com/noah-isme/admissions-portal-api/pkg/database"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	"github.com/noah-isme/admissions-portal-api/pkg/jobs"
	"github.com/noah-isme/admissions-portal-api/pkg/storage"
)

const (
	applicationStatsCacheKey = "applications:stats"
	// maxNumberProbes bounds the search for a free sequence number on submit.
	maxNumberProbes = 1000
)

type applicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetByNumber(ctx context.Context, number string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id string) error
	ExistsForIntake(ctx context.Context, email, program string, intakeYear int) (bool, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error)
	Statistics(ctx context.Context) (*models.ApplicationStatistics, error)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type jobEnqueuer interface {
	TryEnqueue(job jobs.Job) error
}

type downloadSigner interface {
	Generate(owner, key string) (string, time.Time, error)
	Parse(token string) (storage.Grant, error)
}

// ApplicationServiceConfig tunes the lifecycle engine.
type ApplicationServiceConfig struct {
	APIPrefix string
	StatsTTL  time.Duration
}

// AttachmentDownload is an opened attachment ready to stream.
type AttachmentDownload struct {
	Reader    io.ReadCloser
	Filename  string
	MimeType  string
	Size      int64
	ExpiresAt time.Time
}

// ApplicationService drives applications from draft through review.
type ApplicationService struct {
	repo        applicationStore
	attachments *AttachmentService
	cache       *CacheService
	metrics     *MetricsService
	cleanup     jobEnqueuer
	signer      downloadSigner
	audit       auditLogger
	exporter    *ExportService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         ApplicationServiceConfig
	now         func() time.Time
}

// ApplicationServiceDeps groups the optional collaborators of ApplicationService.
type ApplicationServiceDeps struct {
	Cache    *CacheService
	Metrics  *MetricsService
	Cleanup  jobEnqueuer
	Signer   downloadSigner
	Audit    auditLogger
	Exporter *ExportService
}

// NewApplicationService constructs the lifecycle engine.
func NewApplicationService(repo applicationStore, attachments *AttachmentService, deps ApplicationServiceDeps, validate *validator.Validate, logger *zap.Logger, cfg ApplicationServiceConfig) *ApplicationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Exporter == nil {
		deps.Exporter = NewExportService(nil, nil)
	}
	return &ApplicationService{
		repo:        repo,
		attachments: attachments,
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		cleanup:     deps.Cleanup,
		signer:      deps.Signer,
		audit:       deps.Audit,
		exporter:    deps.Exporter,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Create stores a new draft application together with any uploaded files.
func (s *ApplicationService) Create(ctx context.Context, req dto.CreateApplicationRequest, uploads []Upload) (*models.ApplicationView, error) {
	app := &models.Application{
		PersonalInfo:    req.PersonalInfo,
		LocationInfo:    req.LocationInfo,
		CourseSelection: req.CourseSelection,
		Education:       req.Education,
		WorkExperience:  req.WorkExperience,
		AdditionalInfo:  req.AdditionalInfo,
		TermsAgreed:     req.TermsAgreed,
		Payment:         req.Payment,
		Status:          models.ApplicationStatusDraft,
		StatusHistory:   models.StatusHistory{},
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
	}
	app.Normalize()
	if err := s.validator.Struct(app); err != nil {
		return nil, validationError(err, "invalid application payload")
	}
	if err := s.attachments.Validate(uploads); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueIntake(ctx, app); err != nil {
		return nil, err
	}

	stored, err := s.attachments.Store(ctx, uploads)
	if err != nil {
		return nil, err
	}
	app.ID = uuid.NewString()
	ApplyAttachments(&app.Documents, stored)
	s.linkDocuments(app)

	if err := s.repo.Create(ctx, app); err != nil {
		s.attachments.Discard(ctx, stored)
		return nil, appErrors.Internal(err, "failed to create application")
	}

	s.metrics.ApplicationCreated()
	s.cache.Invalidate(ctx, applicationStatsCacheKey)
	s.logger.Info("application draft created", zap.String("application_id", app.ID), zap.String("program", app.CourseSelection.Program))
	view := app.View()
	return &view, nil
}

// Update merges a partial payload into an application. Review fields require
// a privileged actor; anyone else sending them is refused.
func (s *ApplicationService) Update(ctx context.Context, id string, req dto.UpdateApplicationRequest, uploads []Upload, actor *models.JWTClaims) (*models.ApplicationView, error) {
	privileged := actor != nil && actor.Role.IsPrivileged()
	if fields := req.PrivilegedFields(); len(fields) > 0 && !privileged {
		return nil, appErrors.WithDetails(appErrors.ErrForbidden, "only administrators may change status or review fields", map[string]interface{}{"fields": fields})
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, appErrors.Validation("unknown application status", []string{"status"})
	}
	if err := s.attachments.Validate(uploads); err != nil {
		return nil, err
	}

	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !privileged && app.Status != models.ApplicationStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only draft applications can be edited")
	}

	before := intakeKey(app)
	req.PersonalInfo.Apply(&app.PersonalInfo)
	req.LocationInfo.Apply(&app.LocationInfo)
	req.CourseSelection.Apply(&app.CourseSelection)
	if req.Education != nil {
		app.Education = *req.Education
	}
	if req.WorkExperience != nil {
		app.WorkExperience = *req.WorkExperience
	}
	if req.AdditionalInfo != nil {
		app.AdditionalInfo = *req.AdditionalInfo
	}
	if req.Payment != nil {
		payment := *req.Payment
		app.Payment = &payment
	}
	if req.TermsAgreed != nil {
		app.TermsAgreed = *req.TermsAgreed
	}

	if privileged {
		if req.ReviewNotes != nil {
			app.ReviewNotes = optionalString(*req.ReviewNotes)
		}
		if req.ReviewerComments != nil {
			app.ReviewerComments = optionalString(*req.ReviewerComments)
		}
	}

	app.Normalize()
	if err := s.validator.Struct(app); err != nil {
		return nil, validationError(err, "invalid application payload")
	}
	if intakeKey(app) != before {
		if err := s.ensureUniqueIntake(ctx, app); err != nil {
			return nil, err
		}
	}

	stored, err := s.attachments.Store(ctx, uploads)
	if err != nil {
		return nil, err
	}
	ApplyAttachments(&app.Documents, stored)
	s.linkDocuments(app)

	var transitioned, submitted bool
	if privileged && req.Status != nil {
		notes := ""
		if req.StatusNotes != nil {
			notes = strings.TrimSpace(*req.StatusNotes)
		}
		actorID := actor.UserID
		transitioned, submitted, err = s.applyStatus(ctx, app, *req.Status, &actorID, notes)
		if err != nil {
			s.attachments.Discard(ctx, stored)
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, app); err != nil {
		s.attachments.Discard(ctx, stored)
		return nil, s.mapWriteError(err, "failed to update application")
	}

	if submitted {
		s.metrics.ApplicationSubmitted()
	}
	if transitioned {
		s.metrics.StatusTransition(app.Status)
		s.emitAudit(ctx, actor, models.AuditActionApplicationStatus, app.ID, string(app.Status))
	}
	s.cache.Invalidate(ctx, applicationStatsCacheKey)
	view := app.View()
	return &view, nil
}

// Submit finalises a draft, assigning its application number.
func (s *ApplicationService) Submit(ctx context.Context, id string, actor *models.JWTClaims) (*models.ApplicationView, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrConflict, "application has already been submitted")
	}

	var actorID *string
	if actor != nil && actor.UserID != "" {
		uid := actor.UserID
		actorID = &uid
	}
	if err := s.enterSubmitted(ctx, app, actorID, "", s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, s.mapWriteError(err, "failed to submit application")
	}

	s.metrics.ApplicationSubmitted()
	s.metrics.StatusTransition(app.Status)
	s.cache.Invalidate(ctx, applicationStatsCacheKey)
	s.logger.Info("application submitted", zap.String("application_id", app.ID), zap.String("application_number", *app.ApplicationNumber))
	view := app.View()
	return &view, nil
}

// linkDocuments sets each file URL to the admin route that issues a
// download link for it.
func (s *ApplicationService) linkDocuments(app *models.Application) {
	base := fmt.Sprintf("%s/applications/%s/documents", strings.TrimRight(s.cfg.APIPrefix, "/"), app.ID)
	for _, slot := range models.SingleDocumentSlots {
		if meta := app.Documents.Slot(slot); meta != nil {
			meta.URL = fmt.Sprintf("%s/%s/url", base, slot)
		}
	}
	for i := range app.Documents.RecommendationLetters {
		app.Documents.RecommendationLetters[i].URL = fmt.Sprintf("%s/%s/url?index=%d", base, models.SlotRecommendationLetters, i)
	}
}

// enterSubmitted moves app to submitted once terms are agreed and the
// mandatory documents are present, assigning a number when it has none.
func (s *ApplicationService) enterSubmitted(ctx context.Context, app *models.Application, actorID *string, notes string, now time.Time) error {
	if !app.TermsAgreed {
		return appErrors.Precondition("terms and conditions must be accepted before submission", []string{"termsAgreed"})
	}
	if missing := app.MissingDocuments(); len(missing) > 0 {
		return appErrors.Precondition("required documents are missing", missing)
	}
	var number string
	if app.ApplicationNumber == nil {
		next, err := s.nextApplicationNumber(ctx, now)
		if err != nil {
			return err
		}
		number = next
	}
	app.MarkSubmitted(number, actorID, notes, now)
	return nil
}

// applyStatus is the single entry for admin status changes. Reaching
// submitted from draft goes through enterSubmitted like Submit does.
func (s *ApplicationService) applyStatus(ctx context.Context, app *models.Application, status models.ApplicationStatus, actorID *string, notes string) (changed, submitted bool, err error) {
	now := s.now().UTC()
	if app.NeedsSubmission(status) {
		if err := s.enterSubmitted(ctx, app, actorID, notes, now); err != nil {
			return false, false, err
		}
		return true, true, nil
	}
	return app.SetStatus(status, actorID, notes, now), false, nil
}

// nextApplicationNumber starts from the count of applications created this year
// and skips numbers that are already taken. Concurrent submits can still pick the
// same number; the unique constraint turns that into a retryable conflict.
func (s *ApplicationService) nextApplicationNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := s.repo.CountCreatedSince(ctx, models.YearStart(now))
	if err != nil {
		return "", appErrors.Internal(err, "failed to compute application number")
	}
	for seq := count + 1; seq <= count+maxNumberProbes; seq++ {
		number := models.FormatApplicationNumber(now.Year(), seq)
		taken, err := s.repo.NumberExists(ctx, number)
		if err != nil {
			return "", appErrors.Internal(err, "failed to compute application number")
		}
		if !taken {
			return number, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrDuplicateApplicationNumber, "")
}

// TransitionStatus moves an application to any status in the enum. Entering
// submitted applies the same checks and numbering as Submit.
func (s *ApplicationService) TransitionStatus(ctx context.Context, id string, req dto.StatusTransitionRequest, actor *models.JWTClaims) (*models.ApplicationView, error) {
	if actor == nil || !actor.Role.IsPrivileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators may change application status")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Validation("unknown application status", []string{"status"})
	}

	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	actorID := actor.UserID
	changed, submitted, err := s.applyStatus(ctx, app, req.Status, &actorID, strings.TrimSpace(req.Notes))
	if err != nil {
		return nil, err
	}
	if !changed {
		view := app.View()
		return &view, nil
	}
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, s.mapWriteError(err, "failed to update application status")
	}

	if submitted {
		s.metrics.ApplicationSubmitted()
	}
	s.metrics.StatusTransition(app.Status)
	s.cache.Invalidate(ctx, applicationStatsCacheKey)
	s.emitAudit(ctx, actor, models.AuditActionApplicationStatus, app.ID, string(app.Status))
	view := app.View()
	return &view, nil
}

// Delete removes an application and then its files. File removal failures are
// logged and handed to the cleanup queue; they never fail the call.
func (s *ApplicationService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	app, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, app.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return appErrors.Internal(err, "failed to delete application")
	}

	for _, file := range s.attachments.Remove(ctx, app.Documents.Files()) {
		s.scheduleCleanup(file.Path)
	}

	s.cache.Invalidate(ctx, applicationStatsCacheKey)
	s.emitAudit(ctx, actor, models.AuditActionApplicationDelete, app.ID, "")
	return nil
}

func (s *ApplicationService) scheduleCleanup(path string) {
	if s.cleanup == nil {
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: AttachmentCleanupJobType, Payload: path}
	if err := s.cleanup.TryEnqueue(job); err != nil {
		s.metrics.CleanupOutcome(CleanupOutcomeDropped)
		s.logger.Warn("attachment cleanup not scheduled", zap.String("path", path), zap.Error(err))
	}
}

// GetByID fetches one application.
func (s *ApplicationService) GetByID(ctx context.Context, id string) (*models.ApplicationView, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := app.View()
	return &view, nil
}

// GetByNumber fetches an application by its APP-YYYY-NNNNN number.
func (s *ApplicationService) GetByNumber(ctx context.Context, number string) (*models.ApplicationView, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if !models.ApplicationNumberPattern.MatchString(number) {
		return nil, appErrors.Validation("invalid application number", []string{"applicationNumber"})
	}
	app, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, s.mapReadError(err)
	}
	view := app.View()
	return &view, nil
}

// GetByEmail lists every application filed with the e-mail.
func (s *ApplicationService) GetByEmail(ctx context.Context, email string) ([]models.ApplicationView, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, appErrors.Validation("email is required", []string{"email"})
	}
	return s.listAll(ctx, models.ApplicationFilter{Email: email})
}

// GetByStatus lists every application in a status.
func (s *ApplicationService) GetByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.ApplicationView, error) {
	if !status.Valid() {
		return nil, appErrors.Validation("unknown application status", []string{"status"})
	}
	return s.listAll(ctx, models.ApplicationFilter{Status: status})
}

// GetByProgram lists every application for a program.
func (s *ApplicationService) GetByProgram(ctx context.Context, program string) ([]models.ApplicationView, error) {
	program = strings.TrimSpace(program)
	if program == "" {
		return nil, appErrors.Validation("program is required", []string{"program"})
	}
	return s.listAll(ctx, models.ApplicationFilter{Program: program})
}

func (s *ApplicationService) listAll(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationView, error) {
	filter.Unpaged = true
	apps, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list applications")
	}
	return views(apps), nil
}

// List returns a page of applications with pagination metadata.
func (s *ApplicationService) List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationView, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Validation("unknown application status", []string{"status"})
	}
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 20, 100)
	filter.Unpaged = false
	apps, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list applications")
	}
	return views(apps), models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Statistics returns status counts, served from cache when enabled. The
// boolean reports a cache hit.
func (s *ApplicationService) Statistics(ctx context.Context) (*models.ApplicationStatistics, bool, error) {
	stats, hit, err := Remember(ctx, s.cache, applicationStatsCacheKey, s.cfg.StatsTTL, s.repo.Statistics)
	if err != nil {
		return nil, false, appErrors.Internal(err, "failed to load application statistics")
	}
	return stats, hit, nil
}

// ExportCSV renders every application matching filter.
func (s *ApplicationService) ExportCSV(ctx context.Context, filter models.ApplicationFilter, actor *models.JWTClaims) ([]byte, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Validation("unknown application status", []string{"status"})
	}
	apps, err := s.listAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := s.exporter.ApplicationsCSV(apps)
	if err != nil {
		return nil, err
	}
	s.emitAudit(ctx, actor, models.AuditActionApplicationsExport, "all", fmt.Sprintf("%d rows", len(apps)))
	return data, nil
}

// SummaryPDF renders a printable summary of one application.
func (s *ApplicationService) SummaryPDF(ctx context.Context, id string) ([]byte, string, error) {
	view, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.exporter.ApplicationSummaryPDF(view)
	if err != nil {
		return nil, "", err
	}
	name := view.ID
	if view.ApplicationNumber != nil {
		name = *view.ApplicationNumber
	}
	return data, fmt.Sprintf("application-%s.pdf", name), nil
}

// DocumentURL issues a signed download link for one attachment. index selects
// a recommendation letter and is ignored for single-file slots.
func (s *ApplicationService) DocumentURL(ctx context.Context, id string, slot models.DocumentSlot, index int, actor *models.JWTClaims) (*dto.DocumentURLResponse, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	file, err := attachmentAt(&app.Documents, slot, index)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(app.ID, file.Path)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to generate download token")
	}
	s.emitAudit(ctx, actor, models.AuditActionApplicationDocument, app.ID, string(slot))
	if direct, ok, err := s.attachments.DirectURL(file.Path, time.Until(expiresAt)); err != nil {
		s.logger.Warn("direct attachment link unavailable", zap.String("key", file.Path), zap.Error(err))
	} else if ok {
		return &dto.DocumentURLResponse{URL: direct, ExpiresAt: expiresAt}, nil
	}
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	return &dto.DocumentURLResponse{
		URL:       fmt.Sprintf("%s/files/download?token=%s", base, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Download resolves a signed token to an open attachment stream.
func (s *ApplicationService) Download(ctx context.Context, token string) (*AttachmentDownload, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	grant, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	app, err := s.load(ctx, grant.Owner)
	if err != nil {
		return nil, err
	}
	var file *models.FileMeta
	for _, candidate := range app.Documents.Files() {
		if candidate.Path == grant.Key {
			f := candidate
			file = &f
			break
		}
	}
	if file == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment no longer attached to this application")
	}
	reader, err := s.attachments.Open(ctx, file.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment file missing")
		}
		return nil, appErrors.Internal(err, "failed to open attachment")
	}
	name := file.OriginalName
	if name == "" {
		name = file.Filename
	}
	return &AttachmentDownload{Reader: reader, Filename: name, MimeType: file.MimeType, Size: file.Size, ExpiresAt: grant.ExpiresAt}, nil
}

func attachmentAt(docs *models.Documents, slot models.DocumentSlot, index int) (*models.FileMeta, error) {
	if slot == models.SlotRecommendationLetters {
		if index < 0 || index >= len(docs.RecommendationLetters) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recommendation letter not found")
		}
		file := docs.RecommendationLetters[index]
		return &file, nil
	}
	file := docs.Slot(slot)
	if file == nil || file.Path == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no %s uploaded", slot))
	}
	return file, nil
}

func (s *ApplicationService) load(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, s.mapReadError(err)
	}
	return app, nil
}

func (s *ApplicationService) ensureUniqueIntake(ctx context.Context, app *models.Application) error {
	exists, err := s.repo.ExistsForIntake(ctx, app.PersonalInfo.Email, app.CourseSelection.Program, app.CourseSelection.IntakeYear)
	if err != nil {
		return appErrors.Internal(err, "failed to check existing applications")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateApplication, "")
	}
	return nil
}

func (s *ApplicationService) mapReadError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	return appErrors.Internal(err, "failed to load application")
}

func (s *ApplicationService) mapWriteError(err error, message string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "application not found")
	case database.IsUniqueViolation(err, repository.ApplicationNumberConstraint):
		return appErrors.Clone(appErrors.ErrDuplicateApplicationNumber, "")
	}
	return appErrors.Internal(err, message)
}

func (s *ApplicationService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID, detail string) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "application",
		ResourceID: &resourceID,
		IPAddress:  "system",
		UserAgent:  "application-service",
	}
	if actor != nil && actor.UserID != "" {
		userID := actor.UserID
		entry.UserID = &userID
	}
	if detail != "" {
		entry.NewValues = []byte(fmt.Sprintf("%q", detail))
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to persist audit log", zap.String("action", action), zap.Error(err))
	}
}

func intakeKey(app *models.Application) string {
	return fmt.Sprintf("%s|%s|%d", app.PersonalInfo.Email, app.CourseSelection.Program, app.CourseSelection.IntakeYear)
}

func views(apps []models.Application) []models.ApplicationView {
	out := make([]models.ApplicationView, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.View())
	}
	return out
}

func optionalString(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}
