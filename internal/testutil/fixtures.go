package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"guestgate/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// LicenseOption customizes a license created by CreateTestLicense.
type LicenseOption func(*models.License)

// WithInactive marks the license as disabled.
func WithInactive() LicenseOption {
	return func(l *models.License) { l.IsActive = false }
}

// WithExpiry sets the license expiry date.
func WithExpiry(at time.Time) LicenseOption {
	return func(l *models.License) { l.ExpiryDate = &at }
}

// WithDailyQuota sets the maximum number of requests per day.
func WithDailyQuota(n int) LicenseOption {
	return func(l *models.License) { l.MaxRequestsPerDay = &n }
}

// WithAllowedIPs stores ips as the license's JSON allow-list.
func WithAllowedIPs(ips ...string) LicenseOption {
	return func(l *models.License) {
		raw, _ := json.Marshal(ips)
		l.AllowedIPs = datatypes.JSON(raw)
	}
}

// WithRawAllowedIPs stores raw verbatim in the allowed_ips column.
func WithRawAllowedIPs(raw string) LicenseOption {
	return func(l *models.License) { l.AllowedIPs = datatypes.JSON(raw) }
}

// CreateTestLicense creates an active, unlimited license with a unique key.
func CreateTestLicense(t *testing.T, db *gorm.DB, opts ...LicenseOption) *models.License {
	t.Helper()

	id := nextID()
	license := &models.License{
		LicenseKey:  fmt.Sprintf("test-key-%d", id),
		LicenseName: fmt.Sprintf("Test License %d", id),
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(license)
	}

	if err := db.Create(license).Error; err != nil {
		t.Fatalf("failed to create test license: %v", err)
	}
	return license
}

// CreateTestGuest creates a guest profile with the given first and last name.
func CreateTestGuest(t *testing.T, db *gorm.DB, first, last string) *models.Name {
	t.Helper()

	name := &models.Name{
		NameID: nextID() + 1000,
		First:  first,
		Last:   last,
	}
	if err := db.Create(name).Error; err != nil {
		t.Fatalf("failed to create test guest: %v", err)
	}
	return name
}

// CreateTestReservation links confirmationNo to the guest nameID.
func CreateTestReservation(t *testing.T, db *gorm.DB, confirmationNo, nameID int64) *models.ReservationName {
	t.Helper()

	link := &models.ReservationName{
		ResvNameID:     nextID() + 5000,
		ConfirmationNo: confirmationNo,
		NameID:         nameID,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to create test reservation: %v", err)
	}
	return link
}

// CreateTestAddress creates an address row for the guest nameID.
func CreateTestAddress(t *testing.T, db *gorm.DB, nameID int64, address string) *models.NameAddress {
	t.Helper()

	addr := &models.NameAddress{
		AddressID: nextID() + 9000,
		NameID:    nameID,
		Address1:  address,
	}
	if err := db.Create(addr).Error; err != nil {
		t.Fatalf("failed to create test address: %v", err)
	}
	return addr
}

// CreateTestAuditLog records a completed request for licenseKey at the given time.
func CreateTestAuditLog(t *testing.T, db *gorm.DB, licenseKey string, at time.Time) *models.AuditLog {
	t.Helper()

	key := licenseKey
	entry := &models.AuditLog{
		RequestMethod:     "GET",
		RequestPath:       "/api/guests/1",
		RequestTimestamp:  at,
		ResponseStatus:    200,
		ResponseTimestamp: at,
		ClientIP:          "127.0.0.1",
		LicenseKey:        &key,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test audit log: %v", err)
	}
	return entry
}

// CountAuditLogs returns the number of rows in the audit table.
func CountAuditLogs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.AuditLog{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count audit logs: %v", err)
	}
	return count
}
