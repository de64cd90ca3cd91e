package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/repository"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	"github.com/noah-isme/admissions-portal-api/pkg/jobs"
	"github.com/noah-isme/admissions-portal-api/pkg/storage"
)

type applicationRepoStub struct {
	items     map[string]*models.Application
	seq       int
	now       func() time.Time
	updateErr error
	lastList  models.ApplicationFilter
	statsHits int
}

func newApplicationRepoStub() *applicationRepoStub {
	return &applicationRepoStub{items: make(map[string]*models.Application), now: time.Now}
}

func (r *applicationRepoStub) clone(app *models.Application) *models.Application {
	copy := *app
	copy.StatusHistory = append(models.StatusHistory{}, app.StatusHistory...)
	copy.Documents.RecommendationLetters = append([]models.FileMeta{}, app.Documents.RecommendationLetters...)
	return &copy
}

func (r *applicationRepoStub) Create(ctx context.Context, app *models.Application) error {
	r.seq++
	app.ID = fmt.Sprintf("app-%d", r.seq)
	app.CreatedAt = r.now().UTC()
	app.UpdatedAt = app.CreatedAt
	r.items[app.ID] = r.clone(app)
	return nil
}

func (r *applicationRepoStub) GetByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := r.items[id]; ok {
		return r.clone(app), nil
	}
	return nil, sql.ErrNoRows
}

func (r *applicationRepoStub) GetByNumber(ctx context.Context, number string) (*models.Application, error) {
	for _, app := range r.items {
		if app.ApplicationNumber != nil && *app.ApplicationNumber == number {
			return r.clone(app), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *applicationRepoStub) Update(ctx context.Context, app *models.Application) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.items[app.ID]; !ok {
		return sql.ErrNoRows
	}
	r.items[app.ID] = r.clone(app)
	return nil
}

func (r *applicationRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *applicationRepoStub) ExistsForIntake(ctx context.Context, email, program string, intakeYear int) (bool, error) {
	for _, app := range r.items {
		if app.PersonalInfo.Email == email && app.CourseSelection.Program == program && app.CourseSelection.IntakeYear == intakeYear {
			return true, nil
		}
	}
	return false, nil
}

func (r *applicationRepoStub) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	count := 0
	for _, app := range r.items {
		if !app.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *applicationRepoStub) NumberExists(ctx context.Context, number string) (bool, error) {
	_, err := r.GetByNumber(ctx, number)
	return err == nil, nil
}

func (r *applicationRepoStub) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error) {
	r.lastList = filter
	out := make([]models.Application, 0, len(r.items))
	for _, app := range r.items {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.Email != "" && app.PersonalInfo.Email != filter.Email {
			continue
		}
		if filter.Program != "" && app.CourseSelection.Program != filter.Program {
			continue
		}
		out = append(out, *r.clone(app))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *applicationRepoStub) Statistics(ctx context.Context) (*models.ApplicationStatistics, error) {
	r.statsHits++
	stats := &models.ApplicationStatistics{}
	for _, app := range r.items {
		stats.Total++
		if app.Status == models.ApplicationStatusSubmitted {
			stats.Submitted++
		}
		if app.Status == models.ApplicationStatusAccepted {
			stats.Accepted++
		}
	}
	return stats, nil
}

type auditRecorder struct {
	logs []models.AuditLog
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, *log)
	return nil
}

type enqueueRecorder struct {
	jobs []jobs.Job
}

func (e *enqueueRecorder) TryEnqueue(job jobs.Job) error {
	e.jobs = append(e.jobs, job)
	return nil
}

type applicationFixture struct {
	svc     *ApplicationService
	repo    *applicationRepoStub
	backend *memoryBackend
	cache   *memoryCache
	audit   *auditRecorder
	cleanup *enqueueRecorder
	metrics *MetricsService
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	f := &applicationFixture{
		repo:    newApplicationRepoStub(),
		backend: newMemoryBackend(),
		cache:   newMemoryCache(),
		audit:   &auditRecorder{},
		cleanup: &enqueueRecorder{},
		metrics: NewMetricsService(),
	}
	attachments := NewAttachmentService(f.backend, f.metrics, nil, AttachmentConfig{})
	f.svc = NewApplicationService(f.repo, attachments, ApplicationServiceDeps{
		Cache:   NewCacheService(f.cache, f.metrics, time.Minute, nil, true),
		Metrics: f.metrics,
		Cleanup: f.cleanup,
		Signer:  storage.NewSignedURLSigner("secret", time.Minute),
		Audit:   f.audit,
	}, nil, nil, ApplicationServiceConfig{APIPrefix: "/api/v1"})
	return f
}

func validCreateRequest() dto.CreateApplicationRequest {
	return dto.CreateApplicationRequest{
		PersonalInfo: models.PersonalInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "Jane.Doe@Example.com",
			Phone:     "+250 788 000 000",
		},
		LocationInfo: models.LocationInfo{
			Province: "Kigali", District: "Gasabo", Sector: "Remera", Cell: "Rukiri", Village: "Amahoro",
		},
		CourseSelection: models.CourseSelection{Program: "Computer Science", Level: "bachelor", IntakeYear: 2026},
		TermsAgreed:     true,
	}
}

func mandatoryUploads() []Upload {
	return []Upload{
		upload(models.SlotResume, "cv.pdf", "application/pdf", "cv"),
		upload(models.SlotTranscripts, "t.pdf", "application/pdf", "tr"),
		upload(models.SlotIDProof, "id.png", "image/png", "id"),
	}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func TestApplicationServiceCreateDraft(t *testing.T) {
	f := newApplicationFixture(t)

	app, err := f.svc.Create(context.Background(), validCreateRequest(), mandatoryUploads())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, app.Status)
	assert.Nil(t, app.ApplicationNumber)
	assert.Equal(t, "jane.doe@example.com", app.PersonalInfo.Email)
	assert.Equal(t, models.DefaultNationality, app.PersonalInfo.Nationality)
	assert.Equal(t, "Jane Doe", app.FullName)
	assert.False(t, app.IsSubmitted)
	assert.Empty(t, app.StatusHistory)
	require.NotNil(t, app.Documents.Resume)
	assert.Len(t, f.backend.objects, 3)
	assert.EqualValues(t, 1, f.metrics.Snapshot().ApplicationsCreated)
	assert.Contains(t, f.cache.deleted, applicationStatsCacheKey)
}

func TestApplicationServiceFileURLsPointAtDocumentRoute(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	uploads := append(mandatoryUploads(),
		upload(models.SlotRecommendationLetters, "ref1.pdf", "application/pdf", "r1"),
		upload(models.SlotRecommendationLetters, "ref2.pdf", "application/pdf", "r2"),
	)

	created, err := f.svc.Create(ctx, validCreateRequest(), uploads)
	require.NoError(t, err)
	require.Contains(t, f.repo.items, created.ID)
	base := "/api/v1/applications/" + created.ID + "/documents/"
	assert.Equal(t, base+"resume/url", created.Documents.Resume.URL)
	assert.Equal(t, base+"idProof/url", created.Documents.IDProof.URL)
	require.Len(t, created.Documents.RecommendationLetters, 2)
	assert.Equal(t, base+"recommendationLetters/url?index=1", created.Documents.RecommendationLetters[1].URL)

	updated, err := f.svc.Update(ctx, created.ID, dto.UpdateApplicationRequest{}, []Upload{
		upload(models.SlotPassportPhoto, "me.png", "image/png", "photo"),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Documents.PassportPhoto)
	assert.Equal(t, base+"passportPhoto/url", updated.Documents.PassportPhoto.URL)
}

func TestApplicationServiceCreateValidationListsAllFields(t *testing.T) {
	f := newApplicationFixture(t)
	req := validCreateRequest()
	req.PersonalInfo.FirstName = ""
	req.PersonalInfo.Email = "not-an-email"
	req.LocationInfo.Village = ""
	req.CourseSelection.IntakeYear = 2019

	_, err := f.svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	details := appErr.Details.(map[string]interface{})
	assert.ElementsMatch(t, []string{
		"personalInfo.firstName",
		"personalInfo.email",
		"locationInfo.village",
		"courseSelection.intakeYear",
	}, details["fields"])
	assert.Empty(t, f.repo.items)
}

func TestApplicationServiceCreateDuplicateIntake(t *testing.T) {
	f := newApplicationFixture(t)
	_, err := f.svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), validCreateRequest(), mandatoryUploads())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateApplication.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.backend.objects, "files must not be stored for a rejected duplicate")

	other := validCreateRequest()
	other.CourseSelection.IntakeYear = 2027
	_, err = f.svc.Create(context.Background(), other, nil)
	require.NoError(t, err)

	other = validCreateRequest()
	other.CourseSelection.Program = "Nursing"
	_, err = f.svc.Create(context.Background(), other, nil)
	require.NoError(t, err)

	other = validCreateRequest()
	other.PersonalInfo.Email = "someone@example.com"
	_, err = f.svc.Create(context.Background(), other, nil)
	require.NoError(t, err)
}

func TestApplicationServiceCreateRejectsDisallowedFileBeforeWriting(t *testing.T) {
	f := newApplicationFixture(t)
	uploads := append(mandatoryUploads(), upload(models.SlotPassportPhoto, "virus.exe", "application/octet-stream", "MZ"))

	_, err := f.svc.Create(context.Background(), validCreateRequest(), uploads)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnsupportedFileType.Code, appErrors.FromError(err).Code)
	assert.Empty(t, f.repo.items)
	assert.Zero(t, f.backend.saveCalls)
}

func TestApplicationServiceUpdateMergesPartialPayload(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	phone := "+250 700 111 222"
	updated, err := f.svc.Update(context.Background(), created.ID, dto.UpdateApplicationRequest{
		PersonalInfo: &dto.PersonalInfoPatch{Phone: &phone},
	}, []Upload{upload(models.SlotResume, "new.pdf", "", "v2")}, nil)
	require.NoError(t, err)
	assert.Equal(t, phone, updated.PersonalInfo.Phone)
	assert.Equal(t, "Jane", updated.PersonalInfo.FirstName)
	assert.Equal(t, "Doe", updated.PersonalInfo.LastName)
	assert.Equal(t, "jane.doe@example.com", updated.PersonalInfo.Email)
	assert.Equal(t, "Kigali", updated.LocationInfo.Province)
	require.NotNil(t, updated.Documents.Resume)
	assert.Equal(t, "new.pdf", updated.Documents.Resume.OriginalName)
}

func TestApplicationServiceUpdatePrivilegedFields(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	status := models.ApplicationStatusUnderReview
	notes := "looks promising"
	req := dto.UpdateApplicationRequest{Status: &status, ReviewNotes: &notes}

	_, err = f.svc.Update(context.Background(), created.ID, req, nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	updated, err := f.svc.Update(context.Background(), created.ID, req, nil, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusUnderReview, updated.Status)
	require.NotNil(t, updated.ReviewNotes)
	assert.Equal(t, notes, *updated.ReviewNotes)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, "admin-1", *updated.ReviewedBy)
	assert.Len(t, updated.StatusHistory, 1)
}

func TestApplicationServiceUpdateNotFound(t *testing.T) {
	f := newApplicationFixture(t)
	_, err := f.svc.Update(context.Background(), "missing", dto.UpdateApplicationRequest{}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceSubmitPreconditions(t *testing.T) {
	f := newApplicationFixture(t)
	req := validCreateRequest()
	req.TermsAgreed = false
	created, err := f.svc.Create(context.Background(), req, []Upload{upload(models.SlotTranscripts, "t.pdf", "", "x")})
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), created.ID, nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, []string{"termsAgreed"}, appErr.Details.(map[string]interface{})["missing"])

	agreed := true
	_, err = f.svc.Update(context.Background(), created.ID, dto.UpdateApplicationRequest{TermsAgreed: &agreed}, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), created.ID, nil)
	require.Error(t, err)
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, []string{"resume", "idProof"}, appErr.Details.(map[string]interface{})["missing"])
	assert.Equal(t, models.ApplicationStatusDraft, f.repo.items[created.ID].Status)
}

func TestApplicationServiceSubmitAssignsSequentialNumbers(t *testing.T) {
	f := newApplicationFixture(t)
	fixed := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }
	f.repo.now = func() time.Time { return fixed }

	ids := make([]string, 0, 3)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		req := validCreateRequest()
		req.PersonalInfo.Email = email
		created, err := f.svc.Create(context.Background(), req, mandatoryUploads())
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	var numbers []string
	for _, id := range ids {
		submitted, err := f.svc.Submit(context.Background(), id, nil)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatusSubmitted, submitted.Status)
		require.NotNil(t, submitted.SubmittedAt)
		require.NotNil(t, submitted.ApplicationNumber)
		assert.Regexp(t, `^APP-2026-\d{5}$`, *submitted.ApplicationNumber)
		assert.Len(t, submitted.StatusHistory, 1)
		numbers = append(numbers, *submitted.ApplicationNumber)
	}
	assert.Equal(t, []string{"APP-2026-00004", "APP-2026-00005", "APP-2026-00006"}, numbers)
	assert.EqualValues(t, 3, f.metrics.Snapshot().ApplicationsSubmitted)

	_, err := f.svc.Submit(context.Background(), ids[0], nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceSubmitNumberRace(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), mandatoryUploads())
	require.NoError(t, err)

	f.repo.updateErr = fmt.Errorf("update application: %w", &pq.Error{Code: "23505", Constraint: repository.ApplicationNumberConstraint})
	_, err = f.svc.Submit(context.Background(), created.ID, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateApplicationNumber.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceTransitionStatusHistory(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(context.Background(), created.ID, dto.StatusTransitionRequest{Status: models.ApplicationStatusAccepted}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	steps := []models.ApplicationStatus{
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusShortlisted,
		models.ApplicationStatusAccepted,
	}
	var last *models.ApplicationView
	for _, status := range steps {
		last, err = f.svc.TransitionStatus(context.Background(), created.ID, dto.StatusTransitionRequest{Status: status, Notes: "step"}, adminClaims())
		require.NoError(t, err)
	}
	assert.Equal(t, models.ApplicationStatusAccepted, last.Status)
	assert.Len(t, last.StatusHistory, 3)
	require.NotNil(t, last.ReviewedAt)
	assert.Len(t, f.audit.logs, 3)

	_, err = f.svc.TransitionStatus(context.Background(), created.ID, dto.StatusTransitionRequest{Status: "approved"}, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceTransitionToSubmittedAppliesSubmitChecks(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	req := validCreateRequest()
	req.TermsAgreed = false
	created, err := f.svc.Create(ctx, req, nil)
	require.NoError(t, err)

	submit := dto.StatusTransitionRequest{Status: models.ApplicationStatusSubmitted, Notes: "entered by admissions office"}
	_, err = f.svc.TransitionStatus(ctx, created.ID, submit, adminClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, []string{"termsAgreed"}, appErr.Details.(map[string]interface{})["missing"])

	stored := f.repo.items[created.ID]
	assert.Equal(t, models.ApplicationStatusDraft, stored.Status)
	assert.Nil(t, stored.ApplicationNumber)
	assert.Empty(t, stored.StatusHistory)

	agreed := true
	_, err = f.svc.Update(ctx, created.ID, dto.UpdateApplicationRequest{TermsAgreed: &agreed}, nil, nil)
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(ctx, created.ID, submit, adminClaims())
	require.Error(t, err)
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, []string{"resume", "transcripts", "idProof"}, appErr.Details.(map[string]interface{})["missing"])

	_, err = f.svc.Update(ctx, created.ID, dto.UpdateApplicationRequest{}, mandatoryUploads(), nil)
	require.NoError(t, err)
	submitted, err := f.svc.TransitionStatus(ctx, created.ID, submit, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.ApplicationNumber)
	assert.Regexp(t, `^APP-\d{4}-\d{5}$`, *submitted.ApplicationNumber)
	require.NotNil(t, submitted.SubmittedAt)
	require.Len(t, submitted.StatusHistory, 1)
	assert.Equal(t, "entered by admissions office", submitted.StatusHistory[0].Notes)
	assert.EqualValues(t, 1, f.metrics.Snapshot().ApplicationsSubmitted)
	assert.Len(t, f.audit.logs, 1)

	_, err = f.svc.Submit(ctx, created.ID, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceUpdateStatusToSubmittedAppliesSubmitChecks(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, validCreateRequest(), nil)
	require.NoError(t, err)

	status := models.ApplicationStatusSubmitted
	req := dto.UpdateApplicationRequest{Status: &status}

	_, err = f.svc.Update(ctx, created.ID, req, []Upload{upload(models.SlotResume, "cv.pdf", "application/pdf", "cv")}, adminClaims())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Equal(t, []string{"transcripts", "idProof"}, appErr.Details.(map[string]interface{})["missing"])
	assert.Empty(t, f.backend.objects)
	assert.Equal(t, models.ApplicationStatusDraft, f.repo.items[created.ID].Status)
	assert.Nil(t, f.repo.items[created.ID].Documents.Resume)

	updated, err := f.svc.Update(ctx, created.ID, req, mandatoryUploads(), adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusSubmitted, updated.Status)
	require.NotNil(t, updated.ApplicationNumber)
	require.NotNil(t, updated.SubmittedAt)
	require.NotNil(t, updated.Documents.IDProof)
	assert.Len(t, f.backend.objects, 3)
	assert.EqualValues(t, 1, f.metrics.Snapshot().ApplicationsSubmitted)
}

func TestApplicationServiceDeleteSwallowsFileFailures(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), mandatoryUploads())
	require.NoError(t, err)
	f.backend.failKeys[created.Documents.Transcripts.Path] = true

	require.NoError(t, f.svc.Delete(context.Background(), created.ID, adminClaims()))
	assert.Empty(t, f.repo.items)
	assert.Len(t, f.backend.objects, 1)
	require.Len(t, f.cleanup.jobs, 1)
	assert.Equal(t, AttachmentCleanupJobType, f.cleanup.jobs[0].Type)
	assert.Equal(t, created.Documents.Transcripts.Path, f.cleanup.jobs[0].Payload)

	err = f.svc.Delete(context.Background(), created.ID, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceQueries(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), mandatoryUploads())
	require.NoError(t, err)
	submitted, err := f.svc.Submit(context.Background(), created.ID, nil)
	require.NoError(t, err)

	byNumber, err := f.svc.GetByNumber(context.Background(), strings.ToLower(*submitted.ApplicationNumber))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	_, err = f.svc.GetByNumber(context.Background(), "APP-1")
	require.Error(t, err)

	byEmail, err := f.svc.GetByEmail(context.Background(), "JANE.DOE@example.com")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.True(t, f.repo.lastList.Unpaged)

	byStatus, err := f.svc.GetByStatus(context.Background(), models.ApplicationStatusSubmitted)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	byProgram, err := f.svc.GetByProgram(context.Background(), "Nursing")
	require.NoError(t, err)
	assert.Empty(t, byProgram)

	list, pagination, err := f.svc.List(context.Background(), models.ApplicationFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 100, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestApplicationServiceStatisticsCached(t *testing.T) {
	f := newApplicationFixture(t)
	_, err := f.svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	stats, hit, err := f.svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, stats.Total)
	_, hit, err = f.svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, f.repo.statsHits)

	other := validCreateRequest()
	other.PersonalInfo.Email = "other@example.com"
	_, err = f.svc.Create(context.Background(), other, nil)
	require.NoError(t, err)

	stats, _, err = f.svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, f.repo.statsHits)
}

func TestApplicationServiceDocumentDownload(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), mandatoryUploads())
	require.NoError(t, err)

	link, err := f.svc.DocumentURL(context.Background(), created.ID, models.SlotResume, 0, adminClaims())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "/api/v1/files/download?token="))

	token := strings.TrimPrefix(link.URL, "/api/v1/files/download?token=")
	download, err := f.svc.Download(context.Background(), token)
	require.NoError(t, err)
	defer download.Reader.Close()
	body, err := io.ReadAll(download.Reader)
	require.NoError(t, err)
	assert.Equal(t, "cv", string(body))
	assert.Equal(t, "cv.pdf", download.Filename)

	_, err = f.svc.DocumentURL(context.Background(), created.ID, models.SlotPassportPhoto, 0, adminClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = f.svc.Download(context.Background(), token+"x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestApplicationServiceExports(t *testing.T) {
	f := newApplicationFixture(t)
	created, err := f.svc.Create(context.Background(), validCreateRequest(), nil)
	require.NoError(t, err)

	csv, err := f.svc.ExportCSV(context.Background(), models.ApplicationFilter{}, adminClaims())
	require.NoError(t, err)
	assert.Contains(t, string(csv), "jane.doe@example.com")

	pdf, name, err := f.svc.SummaryPDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "application-"+created.ID+".pdf", name)
}
