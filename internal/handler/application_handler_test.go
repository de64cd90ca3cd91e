package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-portal-api/internal/dto"
	"github.com/noah-isme/admissions-portal-api/internal/middleware"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/service"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

type applicationServiceMock struct {
	createReq     dto.CreateApplicationRequest
	createUploads []service.Upload
	createErr     error
	updateReq     dto.UpdateApplicationRequest
	updateActor   *models.JWTClaims
	updateErr     error
	lastFilter    models.ApplicationFilter
	statsHit      bool
	download      *service.AttachmentDownload
	downloadErr   error
	slot          models.DocumentSlot
	index         int
	createCalled  bool
	listCalled    bool
	exportCalled  bool
}

func (m *applicationServiceMock) Create(ctx context.Context, req dto.CreateApplicationRequest, uploads []service.Upload) (*models.ApplicationView, error) {
	m.createCalled = true
	m.createReq = req
	m.createUploads = uploads
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.ApplicationView{Application: models.Application{ID: "app-1", Status: models.ApplicationStatusDraft}}, nil
}

func (m *applicationServiceMock) Update(ctx context.Context, id string, req dto.UpdateApplicationRequest, uploads []service.Upload, actor *models.JWTClaims) (*models.ApplicationView, error) {
	m.updateReq = req
	m.updateActor = actor
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.ApplicationView{Application: models.Application{ID: id}}, nil
}

func (m *applicationServiceMock) Submit(ctx context.Context, id string, actor *models.JWTClaims) (*models.ApplicationView, error) {
	return &models.ApplicationView{Application: models.Application{ID: id, Status: models.ApplicationStatusSubmitted}}, nil
}

func (m *applicationServiceMock) TransitionStatus(ctx context.Context, id string, req dto.StatusTransitionRequest, actor *models.JWTClaims) (*models.ApplicationView, error) {
	return &models.ApplicationView{Application: models.Application{ID: id, Status: req.Status}}, nil
}

func (m *applicationServiceMock) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	return nil
}

func (m *applicationServiceMock) GetByID(ctx context.Context, id string) (*models.ApplicationView, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
}

func (m *applicationServiceMock) GetByNumber(ctx context.Context, number string) (*models.ApplicationView, error) {
	return &models.ApplicationView{Application: models.Application{ApplicationNumber: &number}}, nil
}

func (m *applicationServiceMock) GetByEmail(ctx context.Context, email string) ([]models.ApplicationView, error) {
	return []models.ApplicationView{{}, {}}, nil
}

func (m *applicationServiceMock) GetByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.ApplicationView, error) {
	return nil, nil
}

func (m *applicationServiceMock) GetByProgram(ctx context.Context, program string) ([]models.ApplicationView, error) {
	return nil, nil
}

func (m *applicationServiceMock) List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationView, *models.Pagination, error) {
	m.listCalled = true
	m.lastFilter = filter
	return []models.ApplicationView{}, models.NewPagination(filter.Page, filter.PageSize, 0), nil
}

func (m *applicationServiceMock) Statistics(ctx context.Context) (*models.ApplicationStatistics, bool, error) {
	return &models.ApplicationStatistics{Total: 3}, m.statsHit, nil
}

func (m *applicationServiceMock) ExportCSV(ctx context.Context, filter models.ApplicationFilter, actor *models.JWTClaims) ([]byte, error) {
	m.exportCalled = true
	m.lastFilter = filter
	return []byte("number,email\n"), nil
}

func (m *applicationServiceMock) SummaryPDF(ctx context.Context, id string) ([]byte, string, error) {
	return []byte("%PDF"), id + ".pdf", nil
}

func (m *applicationServiceMock) DocumentURL(ctx context.Context, id string, slot models.DocumentSlot, index int, actor *models.JWTClaims) (*dto.DocumentURLResponse, error) {
	m.slot = slot
	m.index = index
	return &dto.DocumentURLResponse{URL: "/files/download?token=abc"}, nil
}

func (m *applicationServiceMock) Download(ctx context.Context, token string) (*service.AttachmentDownload, error) {
	return m.download, m.downloadErr
}

func newTestContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, body)
	c.Request = req
	return c, w
}

func asAdmin(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin})
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestApplicationHandlerCreateMultipart(t *testing.T) {
	mockSvc := &applicationServiceMock{}
	handler := NewApplicationHandler(mockSvc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("personalInfo", `{"firstName":"Ada","lastName":"Lovelace","email":"ADA@example.com","phone":"+250788000000"}`))
	require.NoError(t, mw.WriteField("courseSelection", `{"program":"Computer Science","level":"bachelor","intakeYear":2026}`))
	require.NoError(t, mw.WriteField("termsAgreed", "true"))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="resume"; filename="cv.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 resume"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="recommendationLetters"; filename="letter.pdf"`)
		header.Set("Content-Type", "application/pdf")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 letter"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	c, w := newTestContext(http.MethodPost, "/applications", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request.Header.Set("User-Agent", "intake-test")

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, mockSvc.createCalled)
	assert.Equal(t, "Ada", mockSvc.createReq.PersonalInfo.FirstName)
	assert.Equal(t, "Computer Science", mockSvc.createReq.CourseSelection.Program)
	assert.True(t, mockSvc.createReq.TermsAgreed)
	assert.Equal(t, "intake-test", mockSvc.createReq.UserAgent)
	require.Len(t, mockSvc.createUploads, 3)
	assert.Equal(t, models.SlotResume, mockSvc.createUploads[0].Slot)
	assert.Equal(t, "cv.pdf", mockSvc.createUploads[0].Filename)
	assert.Equal(t, "application/pdf", mockSvc.createUploads[0].ContentType)

	rc, err := mockSvc.createUploads[0].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.4 resume", string(content))
}

func TestApplicationHandlerCreateRejectsMalformedParts(t *testing.T) {
	mockSvc := &applicationServiceMock{}
	handler := NewApplicationHandler(mockSvc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("personalInfo", `not-json`))
	require.NoError(t, mw.Close())

	c, w := newTestContext(http.MethodPost, "/applications", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.createCalled)

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("termsAgreed", "maybe"))
	require.NoError(t, mw.Close())

	c, w = newTestContext(http.MethodPost, "/applications", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, appErrors.ErrValidation.Code, errBody["code"])
}

func TestApplicationHandlerCreateJSONServiceError(t *testing.T) {
	mockSvc := &applicationServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "application already exists"),
	}
	handler := NewApplicationHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/applications", strings.NewReader(`{"personalInfo":{"firstName":"Ada"},"termsAgreed":true}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ada", mockSvc.createReq.PersonalInfo.FirstName)
	assert.Empty(t, mockSvc.createUploads)

	c, w = newTestContext(http.MethodPost, "/applications", strings.NewReader(`{"personalInfo":`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplicationHandlerUpdatePassesActor(t *testing.T) {
	mockSvc := &applicationServiceMock{}
	handler := NewApplicationHandler(mockSvc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("status", "under-review"))
	require.NoError(t, mw.Close())

	c, w := newTestContext(http.MethodPut, "/applications/app-9", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: "app-9"}}
	asAdmin(c)

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.updateReq.Status)
	assert.Equal(t, models.ApplicationStatusUnderReview, *mockSvc.updateReq.Status)
	require.NotNil(t, mockSvc.updateActor)
	assert.Equal(t, "admin-1", mockSvc.updateActor.UserID)
}

func TestApplicationHandlerListFilter(t *testing.T) {
	mockSvc := &applicationServiceMock{}
	handler := NewApplicationHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/applications?status=submitted&program=Law&year=2026&page=2&limit=5&sortBy=createdAt&sortOrder=asc", nil)
	asAdmin(c)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mockSvc.listCalled)
	assert.Equal(t, models.ApplicationStatusSubmitted, mockSvc.lastFilter.Status)
	assert.Equal(t, "Law", mockSvc.lastFilter.Program)
	assert.Equal(t, 2026, mockSvc.lastFilter.IntakeYear)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 5, mockSvc.lastFilter.PageSize)

	body := decodeEnvelope(t, w)
	assert.NotNil(t, body["pagination"])
}

func TestApplicationHandlerGetByEmailCount(t *testing.T) {
	handler := NewApplicationHandler(&applicationServiceMock{})

	c, w := newTestContext(http.MethodGet, "/applications/user/ada@example.com", nil)
	c.Params = gin.Params{{Key: "email", Value: "ada@example.com"}}
	asAdmin(c)

	handler.GetByEmail(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["count"])
}

func TestApplicationHandlerGetNotFound(t *testing.T) {
	handler := NewApplicationHandler(&applicationServiceMock{})

	c, w := newTestContext(http.MethodGet, "/applications/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplicationHandlerStatisticsMeta(t *testing.T) {
	handler := NewApplicationHandler(&applicationServiceMock{statsHit: true})

	c, w := newTestContext(http.MethodGet, "/applications/statistics", nil)
	asAdmin(c)

	handler.Statistics(c)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["cache_hit"])
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 3, data["total"])
}

func TestApplicationHandlerExportCSV(t *testing.T) {
	mockSvc := &applicationServiceMock{}
	handler := NewApplicationHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/applications/export/csv?status=accepted", nil)
	asAdmin(c)

	handler.ExportCSV(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.exportCalled)
	assert.True(t, mockSvc.lastFilter.Unpaged)
	assert.Equal(t, models.ApplicationStatusAccepted, mockSvc.lastFilter.Status)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "applications.csv")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
}

func TestApplicationHandlerDocumentURL(t *testing.T) {
	mockSvc := &applicationServiceMock{}
	handler := NewApplicationHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/applications/app-1/documents/recommendationLetters/url?index=1", nil)
	c.Params = gin.Params{{Key: "id", Value: "app-1"}, {Key: "slot", Value: "recommendationLetters"}}
	asAdmin(c)

	handler.DocumentURL(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SlotRecommendationLetters, mockSvc.slot)
	assert.Equal(t, 1, mockSvc.index)
}

func TestApplicationHandlerDownload(t *testing.T) {
	handler := NewApplicationHandler(&applicationServiceMock{})
	c, w := newTestContext(http.MethodGet, "/files/download", nil)
	handler.Download(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	handler = NewApplicationHandler(&applicationServiceMock{downloadErr: appErrors.ErrForbidden})
	c, w = newTestContext(http.MethodGet, "/files/download?token=expired", nil)
	handler.Download(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	handler = NewApplicationHandler(&applicationServiceMock{download: &service.AttachmentDownload{
		Reader:   io.NopCloser(strings.NewReader("file-bytes")),
		Filename: "cv.pdf",
		MimeType: "application/pdf",
		Size:     int64(len("file-bytes")),
	}})
	c, w = newTestContext(http.MethodGet, "/files/download?token=valid", nil)
	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file-bytes", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cv.pdf")

	handler = NewApplicationHandler(&applicationServiceMock{download: &service.AttachmentDownload{
		Reader:   io.NopCloser(strings.NewReader("x")),
		Filename: `my "final" cv.pdf`,
		MimeType: "application/pdf",
		Size:     1,
	}})
	c, w = newTestContext(http.MethodGet, "/files/download?token=valid", nil)
	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `my "final" cv.pdf`, params["filename"])
}

func TestAttachmentDisposition(t *testing.T) {
	cases := []string{"report.csv", `quote"d.pdf`, "résumé.pdf", `back\slash.doc`}
	for _, name := range cases {
		t.Run(name, func(t *testing.T) {
			disposition, params, err := mime.ParseMediaType(attachmentDisposition(name))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, name, params["filename"])
		})
	}
}
