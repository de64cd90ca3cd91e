package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/repository"
	"github.com/noah-isme/admissions-portal-api/pkg/database"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, admin *models.Admin) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	UpdateCredentials(ctx context.Context, id, email, passwordHash string, updatedAt time.Time) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	ResetTokenExpiry   time.Duration
	Issuer             string
	DefaultAdminEmail  string
	DefaultAdminPasswd string
}

// AuthService provides admin authentication and credential management.
type AuthService struct {
	repo      adminRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo adminRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	if config.ResetTokenExpiry <= 0 {
		config.ResetTokenExpiry = 15 * time.Minute
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config, now: time.Now}
}

// Exists reports whether any admin account has been created.
func (s *AuthService) Exists(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, appErrors.Internal(err, "failed to count admins")
	}
	return count > 0, nil
}

// Seed creates the first admin. It refuses once any admin exists.
func (s *AuthService) Seed(ctx context.Context, req models.SeedAdminRequest) (*models.AdminInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid seed payload")
	}
	exists, err := s.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an admin account already exists")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		email = strings.ToLower(s.config.DefaultAdminEmail)
	}
	password := req.Password
	if password == "" {
		password = s.config.DefaultAdminPasswd
	}
	if email == "" || len(password) < 6 {
		return nil, appErrors.Validation("admin email and a password of at least 6 characters are required", []string{"email", "password"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}
	admin := &models.Admin{Email: email, PasswordHash: string(hash), Role: models.RoleSuperAdmin}
	if err := s.repo.Create(ctx, admin); err != nil {
		if database.IsUniqueViolation(err, repository.AdminEmailConstraint) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an admin account already exists")
		}
		return nil, appErrors.Internal(err, "failed to create admin")
	}

	s.audit(ctx, admin.ID, models.AuditActionAdminSeed, "", "")
	s.logger.Info("admin account seeded", zap.String("admin_id", admin.ID), zap.String("email", admin.Email))
	info := admin.Info()
	return &info, nil
}

// EnsureDefaultAdmin seeds the configured admin when the table is empty.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	exists, err := s.Exists(ctx)
	if err != nil || exists {
		return err
	}
	_, err = s.Seed(ctx, models.SeedAdminRequest{})
	return err
}

// Login authenticates an admin and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}

	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Internal(err, "failed to fetch admin")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	issuedAt := s.now().UTC()
	token, err := s.signToken(admin, models.TokenPurposeAccess, issuedAt, s.config.AccessTokenExpiry, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID, issuedAt); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	} else {
		admin.LastLogin = &issuedAt
	}
	s.audit(ctx, admin.ID, models.AuditActionLogin, req.IP, req.UserAgent)

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		Admin:       admin.Info(),
		IssuedAt:    issuedAt,
	}, nil
}

// ForgotPassword issues a short-lived reset token for a known admin e-mail.
// The token is bound to the current password hash, so it stops working once used.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (*models.ForgotPasswordResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid forgot password payload")
	}
	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no admin registered with this email")
		}
		return nil, appErrors.Internal(err, "failed to fetch admin")
	}

	issuedAt := s.now().UTC()
	token, err := s.signToken(admin, models.TokenPurposeReset, issuedAt, s.config.ResetTokenExpiry, credentialFingerprint(admin.PasswordHash))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create reset token")
	}
	s.logger.Info("password reset requested", zap.String("admin_id", admin.ID))
	return &models.ForgotPasswordResponse{ResetToken: token, ExpiresAt: issuedAt.Add(s.config.ResetTokenExpiry)}, nil
}

// ResetPassword sets a new password using a reset token.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid reset password payload")
	}
	claims, err := s.parseToken(req.Token)
	if err != nil || claims.Purpose != models.TokenPurposeReset {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired reset token")
	}
	admin, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired reset token")
		}
		return appErrors.Internal(err, "failed to fetch admin")
	}
	if claims.ID != credentialFingerprint(admin.PasswordHash) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "reset token already used")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	if err := s.repo.UpdateCredentials(ctx, admin.ID, admin.Email, string(hash), s.now().UTC()); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	s.audit(ctx, admin.ID, models.AuditActionPasswordReset, "", "")
	return nil
}

// UpdateCredentials changes the admin's e-mail and/or password after checking the current password.
func (s *AuthService) UpdateCredentials(ctx context.Context, id string, req models.UpdateAdminRequest, actor *models.JWTClaims) (*models.AdminInfo, error) {
	if actor == nil || (actor.UserID != id && actor.Role != models.RoleSuperAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot update another admin")
	}
	req.NewEmail = strings.ToLower(strings.TrimSpace(req.NewEmail))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid update payload")
	}
	if req.NewEmail == "" && req.NewPassword == "" {
		return nil, appErrors.Validation("provide a new email or a new password", []string{"newEmail", "newPassword"})
	}

	admin, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "current password is incorrect")
	}

	email := admin.Email
	if req.NewEmail != "" && req.NewEmail != admin.Email {
		other, err := s.repo.FindByEmail(ctx, req.NewEmail)
		switch {
		case err == nil && other.ID != admin.ID:
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Internal(err, "failed to check email")
		}
		email = req.NewEmail
	}
	hash := admin.PasswordHash
	if req.NewPassword != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to hash password")
		}
		hash = string(raw)
	}

	now := s.now().UTC()
	if err := s.repo.UpdateCredentials(ctx, admin.ID, email, hash, now); err != nil {
		switch {
		case database.IsUniqueViolation(err, repository.AdminEmailConstraint):
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Internal(err, "failed to update admin")
	}
	admin.Email = email
	admin.PasswordHash = hash
	admin.UpdatedAt = now

	s.audit(ctx, admin.ID, models.AuditActionAdminUpdate, "", "")
	info := admin.Info()
	return &info, nil
}

// Get returns admin info without credentials.
func (s *AuthService) Get(ctx context.Context, id string) (*models.AdminInfo, error) {
	admin, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	info := admin.Info()
	return &info, nil
}

// ValidateToken parses an access token returning the claims. Reset tokens are rejected.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	if claims.Purpose != models.TokenPurposeAccess {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token purpose")
	}
	return claims, nil
}

func (s *AuthService) load(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Internal(err, "failed to fetch admin")
	}
	return admin, nil
}

func (s *AuthService) parseToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) signToken(admin *models.Admin, purpose string, issuedAt time.Time, ttl time.Duration, jti string) (string, error) {
	claims := &models.JWTClaims{
		UserID:  admin.ID,
		Role:    admin.Role,
		Email:   admin.Email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.config.Issuer,
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) audit(ctx context.Context, adminID, action, ip, userAgent string) {
	id := adminID
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &id,
		Action:     action,
		Resource:   "admin",
		ResourceID: &id,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func credentialFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}
