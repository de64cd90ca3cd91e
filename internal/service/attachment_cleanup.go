package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/admissions-portal-api/pkg/jobs"
)

// AttachmentCleanupJobType identifies queued attachment removals.
const AttachmentCleanupJobType = "attachment.delete"

// Cleanup outcomes reported to metrics.
const (
	CleanupOutcomeRemoved   = "removed"
	CleanupOutcomeRetry     = "retry"
	CleanupOutcomeExhausted = "exhausted"
	CleanupOutcomeDropped   = "dropped"
)

// NewAttachmentCleanupHandler retries removal of files whose deletion failed
// while the owning application was deleted.
func NewAttachmentCleanupHandler(attachments *AttachmentService, metrics *MetricsService) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		path, ok := job.Payload.(string)
		if !ok || path == "" {
			metrics.CleanupOutcome(CleanupOutcomeDropped)
			return nil
		}
		if err := attachments.DeleteKey(ctx, path); err != nil {
			metrics.CleanupOutcome(CleanupOutcomeRetry)
			return fmt.Errorf("delete %s: %w", path, err)
		}
		metrics.CleanupOutcome(CleanupOutcomeRemoved)
		return nil
	}
}

// CleanupExhausted is the queue callback for removals that kept failing.
func CleanupExhausted(metrics *MetricsService, logger *zap.Logger) func(jobs.Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(job jobs.Job, err error) {
		metrics.CleanupOutcome(CleanupOutcomeExhausted)
		logger.Error("attachment left orphaned after retries", zap.Any("path", job.Payload), zap.Error(err))
	}
}
