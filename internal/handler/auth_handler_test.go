package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

type authServiceMock struct {
	exists      bool
	seedReq     models.SeedAdminRequest
	seedErr     error
	loginReq    models.LoginRequest
	loginErr    error
	updateID    string
	updateActor *models.JWTClaims
	seedCalled  bool
	loginCalled bool
}

func (m *authServiceMock) Exists(ctx context.Context) (bool, error) {
	return m.exists, nil
}

func (m *authServiceMock) Seed(ctx context.Context, req models.SeedAdminRequest) (*models.AdminInfo, error) {
	m.seedCalled = true
	m.seedReq = req
	if m.seedErr != nil {
		return nil, m.seedErr
	}
	return &models.AdminInfo{ID: "admin-1", Email: "admin@example.com", Role: models.RoleSuperAdmin}, nil
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.loginCalled = true
	m.loginReq = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "token", Admin: models.AdminInfo{ID: "admin-1"}}, nil
}

func (m *authServiceMock) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	return &models.ForgotPasswordResponse{ResetToken: "reset"}, nil
}

func (m *authServiceMock) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	return nil
}

func (m *authServiceMock) UpdateCredentials(ctx context.Context, id string, req models.UpdateAdminRequest, actor *models.JWTClaims) (*models.AdminInfo, error) {
	m.updateID = id
	m.updateActor = actor
	return &models.AdminInfo{ID: id}, nil
}

func (m *authServiceMock) Get(ctx context.Context, id string) (*models.AdminInfo, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
}

func TestAuthHandlerSeedWithoutBody(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/admin/seed", nil)
	handler.Seed(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.seedCalled)
	assert.Empty(t, mockSvc.seedReq.Email)
}

func TestAuthHandlerSeedConflict(t *testing.T) {
	mockSvc := &authServiceMock{seedErr: appErrors.Clone(appErrors.ErrConflict, "admin already exists")}
	handler := NewAuthHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/admin/seed", strings.NewReader(`{"email":"root@example.com","password":"secret1"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Seed(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "root@example.com", mockSvc.seedReq.Email)
}

func TestAuthHandlerExists(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{exists: true})

	c, w := newTestContext(http.MethodGet, "/admin/check/exists", nil)
	handler.Exists(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["exists"])
}

func TestAuthHandlerLogin(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/admin/login", strings.NewReader(`{"email":"admin@example.com","password":"secret1"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("User-Agent", "login-test")
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login-test", mockSvc.loginReq.UserAgent)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "login successful", body["message"])
}

func TestAuthHandlerLoginErrors(t *testing.T) {
	mockSvc := &authServiceMock{loginErr: appErrors.ErrInvalidCredentials}
	handler := NewAuthHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/admin/login", strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	mockSvc = &authServiceMock{}
	handler = NewAuthHandler(mockSvc)
	c, w = newTestContext(http.MethodPost, "/admin/login", strings.NewReader(`{"email":`))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.loginCalled)
}

func TestAuthHandlerUpdatePassesActor(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/admin/update/admin-1", strings.NewReader(`{"currentPassword":"secret1","newPassword":"secret2"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "admin-1"}}
	asAdmin(c)
	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", mockSvc.updateID)
	require.NotNil(t, mockSvc.updateActor)
}

func TestAuthHandlerGetNotFound(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})

	c, w := newTestContext(http.MethodGet, "/admin/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}
