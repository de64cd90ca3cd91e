package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes carried in JWTClaims.Purpose.
const (
	TokenPurposeAccess = "access"
	TokenPurposeReset  = "password_reset"
)

// SeedAdminRequest creates the first admin account.
type SeedAdminRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// LoginRequest holds credentials for authenticating an admin.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and admin info.
type LoginResponse struct {
	AccessToken string    `json:"token"`
	ExpiresIn   int64     `json:"expiresIn"`
	Admin       AdminInfo `json:"admin"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// ForgotPasswordRequest starts the reset flow for an admin e-mail.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse hands the short-lived reset token back to the caller.
type ForgotPasswordResponse struct {
	ResetToken string    `json:"resetToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// UpdateAdminRequest changes e-mail and/or password after re-authentication.
type UpdateAdminRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewEmail        string `json:"newEmail" validate:"omitempty,email"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=6"`
}

// AdminInfo describes an admin in responses.
type AdminInfo struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Info strips credentials from an admin record.
func (a *Admin) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Email: a.Email, Role: a.Role, LastLogin: a.LastLogin, CreatedAt: a.CreatedAt}
}

// JWTClaims represents the JWT payload for access and reset tokens.
type JWTClaims struct {
	UserID  string   `json:"user_id"`
	Role    UserRole `json:"role"`
	Email   string   `json:"email"`
	Purpose string   `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}
