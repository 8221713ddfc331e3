package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "guestgate/internal/errors"
	"guestgate/internal/models"
)

// licenseService validates API license keys.
type licenseService struct {
	db    *gorm.DB
	tasks *BackgroundTasks
	now   func() time.Time
}

// NewLicenseService creates a new LicenseServicer.
func NewLicenseService(db *gorm.DB, tasks *BackgroundTasks) LicenseServicer {
	return &licenseService{db: db, tasks: tasks, now: time.Now}
}

// ValidateKey loads the license for key and checks it against clientIP and
// today's request count. Checks run in order: existence, active flag,
// expiry, IP allow-list, daily quota.
func (s *licenseService) ValidateKey(ctx context.Context, key, clientIP string) (*models.License, error) {
	if key == "" {
		return nil, apperrors.ErrAPIKeyRequired
	}

	var license models.License
	if err := s.db.WithContext(ctx).Where("license_key = ?", key).First(&license).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidAPIKey
		}
		return nil, apperrors.Wrap(apperrors.ErrLicenseCheckFail, err)
	}

	now := s.now()

	if !license.IsActive {
		return nil, apperrors.ErrLicenseInactive
	}
	if license.IsExpired(now) {
		return nil, apperrors.ErrLicenseExpired
	}

	allowed, err := license.AllowsIP(clientIP)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLicenseCheckFail, err)
	}
	if !allowed {
		return nil, apperrors.ErrIPNotAllowed
	}

	if limit, ok := license.DailyQuota(); ok {
		count, err := s.countRequestsOn(ctx, key, now)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrLicenseCheckFail, err)
		}
		// Not linearized with the audit insert: concurrent requests may
		// overshoot the quota by the number in flight.
		if count >= int64(limit) {
			return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded,
				fmt.Sprintf("Daily request limit of %d has been reached.", limit))
		}
	}

	return &license, nil
}

// countRequestsOn counts audit rows for key whose request fell on the local
// calendar day of now.
func (s *licenseService) countRequestsOn(ctx context.Context, key string, now time.Time) (int64, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("license_key = ? AND request_timestamp >= ? AND request_timestamp < ?", key, start, end).
		Count(&count).Error
	return count, err
}

// RecordUsage bumps the usage counter and last-used timestamp of key in the
// background.
func (s *licenseService) RecordUsage(key string) {
	s.tasks.Go("license_usage", func(ctx context.Context) error {
		err := s.db.WithContext(ctx).Model(&models.License{}).
			Where("license_key = ?", key).
			Updates(map[string]interface{}{
				"last_used_date": s.now(),
				"total_requests": gorm.Expr("total_requests + ?", 1),
			}).Error
		if err != nil {
			return fmt.Errorf("update license usage: %w", err)
		}
		return nil
	})
}
