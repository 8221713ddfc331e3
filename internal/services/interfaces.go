package services

import (
	"context"

	"guestgate/internal/config"
	"guestgate/internal/models"
)

// LicenseServicer defines the contract for license validation.
type LicenseServicer interface {
	ValidateKey(ctx context.Context, key, clientIP string) (*models.License, error)
	RecordUsage(key string)
}

// AuditServicer defines the contract for request audit logging.
type AuditServicer interface {
	Record(entry *models.AuditLog)
}

// GuestRecord is the result of a guest lookup.
type GuestRecord struct {
	ID        int64  `json:"id"`
	NameID    int64  `json:"nameId"`
	GuestName string `json:"guestName"`
}

// GuestUpdate carries the optional fields of a multi-field guest update.
// A nil pointer means the field was not supplied.
type GuestUpdate struct {
	FirstName *string
	LastName  *string
	Address   *string
	DocType   *string
	DocNumber *string
}

// GuestUpdateResult describes a committed guest update.
type GuestUpdateResult struct {
	ID            int64    `json:"id"`
	NameID        int64    `json:"nameId,omitempty"`
	GuestName     string   `json:"guestName,omitempty"`
	UpdatedFields []string `json:"updatedFields"`
	Message       string   `json:"message"`
}

// GuestServicer defines the contract for guest reads and updates.
type GuestServicer interface {
	Contract() config.GuestContract
	GetGuest(ctx context.Context, id int64) (*GuestRecord, error)
	UpdateGuest(ctx context.Context, confirmationNo int64, update GuestUpdate) (*GuestUpdateResult, error)
	UpdateGuestName(ctx context.Context, nameID int64, guestName string) (*GuestUpdateResult, error)
}
