package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	logpkg "github.com/noah-isme/admissions-portal-api/pkg/logger"
)

// lookupError maps a repository read/write failure on a single record.
func lookupError(err error, resource, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	}
	return appErrors.Internal(err, fmt.Sprintf("failed to %s %s", action, resource))
}

// recordAudit persists an audit entry; failures only warn.
func recordAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, actor *models.JWTClaims, action, resource, resourceID string, payload []byte) {
	if audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		NewValues: payload,
		IPAddress: "system",
		UserAgent: resource + "-service",
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if actor != nil && actor.UserID != "" {
		userID := actor.UserID
		entry.UserID = &userID
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logpkg.WithContext(ctx, logger).Warn("failed to persist audit log", zap.String("action", action), zap.Error(err))
	}
}
