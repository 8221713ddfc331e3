package models

import "strings"

// Name is a guest profile in the reservation database.
type Name struct {
	NameID      int64   `gorm:"column:name_id;primaryKey" json:"name_id"`
	First       string  `gorm:"column:first;size:80" json:"first"`
	Last        string  `gorm:"column:last;size:80" json:"last"`
	DisplayName *string `gorm:"column:display_name;size:200" json:"display_name,omitempty"`
	IDType      *string `gorm:"column:id_type;size:40" json:"id_type,omitempty"`
	IDNumber    *string `gorm:"column:id_number;size:80" json:"id_number,omitempty"`
}

// TableName keeps the table name used by the reservation database.
func (Name) TableName() string {
	return "name"
}

// FullName joins first and last name the way reservation screens show it.
func FullName(first, last string) string {
	return first + " " + last
}

// ReservationName links a reservation confirmation number to a guest profile.
type ReservationName struct {
	ResvNameID     int64 `gorm:"column:resv_name_id;primaryKey" json:"resv_name_id"`
	ConfirmationNo int64 `gorm:"column:confirmation_no;not null;index" json:"confirmation_no"`
	NameID         int64 `gorm:"column:name_id;not null;index" json:"name_id"`
}

// TableName keeps the table name used by the reservation database.
func (ReservationName) TableName() string {
	return "reservation_name"
}

// NameAddress is the primary address of a guest profile.
type NameAddress struct {
	AddressID int64  `gorm:"column:address_id;primaryKey" json:"address_id"`
	NameID    int64  `gorm:"column:name_id;not null;index" json:"name_id"`
	Address1  string `gorm:"column:address1;size:200" json:"address1"`
}

// TableName keeps the table name used by the reservation database.
func (NameAddress) TableName() string {
	return "name_address_e"
}

// GuestNameRow is the projection read by guest lookups.
type GuestNameRow struct {
	NameID      int64
	First       string
	Last        string
	DisplayName *string
}

// Computed returns the stored display name when one is set, otherwise the
// joined first and last name.
func (r GuestNameRow) Computed(preferStored bool) string {
	if preferStored && r.DisplayName != nil && strings.TrimSpace(*r.DisplayName) != "" {
		return *r.DisplayName
	}
	return FullName(r.First, r.Last)
}
