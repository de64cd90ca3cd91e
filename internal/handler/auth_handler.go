package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

type authService interface {
	Exists(ctx context.Context) (bool, error)
	Seed(ctx context.Context, req models.SeedAdminRequest) (*models.AdminInfo, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	UpdateCredentials(ctx context.Context, id string, req models.UpdateAdminRequest, actor *models.JWTClaims) (*models.AdminInfo, error)
	Get(ctx context.Context, id string) (*models.AdminInfo, error)
}

// AuthHandler wires the /admin endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Seed godoc
// @Summary Create the first admin
// @Description Creates an admin account only when none exists yet
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.SeedAdminRequest false "Seed payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/seed [post]
func (h *AuthHandler) Seed(c *gin.Context) {
	var req models.SeedAdminRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid seed payload") {
		return
	}
	info, err := h.service.Seed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "admin created", info)
}

// Exists godoc
// @Summary Check whether an admin exists
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/check/exists [get]
func (h *AuthHandler) Exists(c *gin.Context) {
	exists, err := h.service.Exists(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"exists": exists}, nil)
}

// Login godoc
// @Summary Authenticate admin
// @Description Authenticate an admin by email and password
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "login successful", res, nil)
}

// ForgotPassword godoc
// @Summary Start password reset
// @Description Issues a short-lived reset token for a known admin email
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.ForgotPasswordRequest true "Forgot password"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/forget-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	res, err := h.service.ForgotPassword(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "reset token issued", res, nil)
}

// ResetPassword godoc
// @Summary Reset password
// @Description Reset password with a reset token
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.ResetPasswordRequest true "Reset password"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "password updated", nil, nil)
}

// Update godoc
// @Summary Update admin credentials
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Param payload body models.UpdateAdminRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/update/{id} [put]
func (h *AuthHandler) Update(c *gin.Context) {
	var req models.UpdateAdminRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	info, err := h.service.UpdateCredentials(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "admin updated", info, nil)
}

// Get godoc
// @Summary Get admin
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/{id} [get]
func (h *AuthHandler) Get(c *gin.Context) {
	info, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
