package services

import (
	"context"

	"guestgate/internal/logger"
	"guestgate/internal/models"

	"gorm.io/gorm"
)

// auditService handles audit log recording.
type auditService struct {
	db    *gorm.DB
	tasks *BackgroundTasks
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB, tasks *BackgroundTasks) AuditServicer {
	return &auditService{db: db, tasks: tasks}
}

// Record persists entry in the background. Errors are logged but never
// propagate, and the insert is not retried.
func (s *auditService) Record(entry *models.AuditLog) {
	s.tasks.Go("audit_log", func(ctx context.Context) error {
		if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
			logger.Get().Errorw("failed to create audit log entry",
				"error", err,
				"method", entry.RequestMethod,
				"path", entry.RequestPath,
				"status", entry.ResponseStatus,
			)
		}
		return nil
	})
}
