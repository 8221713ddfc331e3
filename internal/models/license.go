package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// License grants an API caller access to the guest endpoints.
type License struct {
	LicenseID         int64          `gorm:"column:license_id;primaryKey;autoIncrement" json:"license_id"`
	LicenseKey        string         `gorm:"column:license_key;size:100;not null;uniqueIndex" json:"-"`
	LicenseName       string         `gorm:"column:license_name;size:200;not null" json:"license_name"`
	IsActive          bool           `gorm:"column:is_active;not null" json:"is_active"`
	ExpiryDate        *time.Time     `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	MaxRequestsPerDay *int           `gorm:"column:max_requests_per_day" json:"max_requests_per_day,omitempty"`
	AllowedIPs        datatypes.JSON `gorm:"column:allowed_ips" json:"allowed_ips,omitempty"`
	TotalRequests     int64          `gorm:"column:total_requests;not null;default:0" json:"total_requests"`
	LastUsedDate      *time.Time     `gorm:"column:last_used_date" json:"last_used_date,omitempty"`
	CreatedDate       time.Time      `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

// TableName keeps the table name used by the reservation database.
func (License) TableName() string {
	return "api_license"
}

// IsExpired reports whether the license expiry lies before now.
// A license without an expiry date never expires.
func (l *License) IsExpired(now time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(now)
}

// DailyQuota returns the configured daily request limit.
// ok is false when the license is unlimited.
func (l *License) DailyQuota() (limit int, ok bool) {
	if l.MaxRequestsPerDay == nil || *l.MaxRequestsPerDay <= 0 {
		return 0, false
	}
	return *l.MaxRequestsPerDay, true
}

// IPAllowList decodes the allowed_ips column. A missing column, JSON null and
// an empty array all decode to an empty list.
func (l *License) IPAllowList() ([]string, error) {
	if len(l.AllowedIPs) == 0 {
		return nil, nil
	}
	var ips []string
	if err := json.Unmarshal(l.AllowedIPs, &ips); err != nil {
		return nil, fmt.Errorf("license %d: malformed allowed_ips: %w", l.LicenseID, err)
	}
	return ips, nil
}

// AllowsIP reports whether ip may use the license. An empty allow-list
// places no restriction on the caller.
func (l *License) AllowsIP(ip string) (bool, error) {
	ips, err := l.IPAllowList()
	if err != nil {
		return false, err
	}
	if len(ips) == 0 {
		return true, nil
	}
	for _, allowed := range ips {
		if allowed == ip {
			return true, nil
		}
	}
	return false, nil
}
