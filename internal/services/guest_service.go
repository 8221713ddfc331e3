package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"guestgate/internal/config"
	apperrors "guestgate/internal/errors"
	"guestgate/internal/logger"
	"guestgate/internal/models"
)

const guestUpdatedMessage = "Guest information updated successfully"

// guestService handles guest reads and updates against the reservation tables.
type guestService struct {
	db       *gorm.DB
	contract config.GuestContract
}

// NewGuestService creates a new GuestServicer serving the given contract.
func NewGuestService(db *gorm.DB, contract config.GuestContract) GuestServicer {
	return &guestService{db: db, contract: contract}
}

// Contract reports which identifier the service resolves guests by.
func (s *guestService) Contract() config.GuestContract {
	return s.contract
}

// GetGuest returns the display name of the first guest matching id. The id is
// a confirmation number or a name identifier depending on the contract. Either
// way a guest is only visible through a reservation_name row, so a name with
// no reservation reads as not found even though UpdateGuestName accepts it.
func (s *guestService) GetGuest(ctx context.Context, id int64) (*GuestRecord, error) {
	query := s.db.WithContext(ctx).
		Table("reservation_name AS res").
		Select("nam.name_id AS name_id, nam.first AS first, nam.last AS last, nam.display_name AS display_name").
		Joins("JOIN name AS nam ON nam.name_id = res.name_id")

	if s.contract == config.ContractNameID {
		query = query.Where("nam.name_id = ?", id)
	} else {
		query = query.Where("res.confirmation_no = ?", id)
	}

	var rows []models.GuestNameRow
	if err := query.Order("res.resv_name_id").Limit(1).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrGuestReadFailed, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrGuestNotFound, fmt.Sprintf("Guest with nameId %d not found", id))
	}

	row := rows[0]
	return &GuestRecord{
		ID:        id,
		NameID:    row.NameID,
		GuestName: row.Computed(s.contract == config.ContractNameID),
	}, nil
}

// UpdateGuest applies a multi-field update to the guest behind a confirmation
// number inside one transaction. When several guests share the confirmation
// number the lowest reservation-name id wins.
func (s *guestService) UpdateGuest(ctx context.Context, confirmationNo int64, update GuestUpdate) (*GuestUpdateResult, error) {
	update = update.trimmed()
	if update.isEmpty() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"At least one field must be provided for update (first_name, last_name, address, doc_type, doc_number)")
	}
	if update.FirstName != nil && *update.FirstName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "first_name must not be blank")
	}
	if update.LastName != nil && *update.LastName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "last_name must not be blank")
	}

	var result *GuestUpdateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.ReservationName
		found := tx.Where("confirmation_no = ?", confirmationNo).Order("resv_name_id").Limit(1).Find(&link)
		if found.Error != nil {
			return found.Error
		}
		if found.RowsAffected == 0 {
			return apperrors.WithMessage(apperrors.ErrGuestNotFound,
				fmt.Sprintf("Guest with confirmation number %d not found", confirmationNo))
		}

		columns, fields := update.nameColumns()
		if len(columns) > 0 {
			if err := tx.Model(&models.Name{}).Where("name_id = ?", link.NameID).Updates(columns).Error; err != nil {
				return err
			}
		}

		if update.Address != nil {
			updated, err := updateAddress(tx, link.NameID, *update.Address)
			if err != nil {
				return err
			}
			if updated {
				fields = append(fields, "address")
			}
		}

		result = &GuestUpdateResult{
			ID:            confirmationNo,
			NameID:        link.NameID,
			UpdatedFields: fields,
			Message:       guestUpdatedMessage,
		}
		return nil
	})
	if err != nil {
		return nil, asUpdateError(err)
	}
	return result, nil
}

// updateAddress rewrites the existing address of nameID. A guest without an
// address row is left untouched.
func updateAddress(tx *gorm.DB, nameID int64, address string) (bool, error) {
	var existing models.NameAddress
	found := tx.Where("name_id = ?", nameID).Order("address_id").Limit(1).Find(&existing)
	if found.Error != nil {
		return false, found.Error
	}
	if found.RowsAffected == 0 {
		logger.Get().Infow("no address record for guest, skipping address update", "name_id", nameID)
		return false, nil
	}

	err := tx.Model(&models.NameAddress{}).
		Where("address_id = ?", existing.AddressID).
		Update("address1", address).Error
	return err == nil, err
}

// UpdateGuestName stores a trimmed display name for nameID in one statement.
func (s *guestService) UpdateGuestName(ctx context.Context, nameID int64, guestName string) (*GuestUpdateResult, error) {
	name := strings.TrimSpace(guestName)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "guestName must not be empty")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Name{}).Where("name_id = ?", nameID).Update("display_name", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.WithMessage(apperrors.ErrGuestNotFound, fmt.Sprintf("Guest with nameId %d not found", nameID))
		}
		return nil
	})
	if err != nil {
		return nil, asUpdateError(err)
	}

	return &GuestUpdateResult{
		ID:            nameID,
		GuestName:     name,
		UpdatedFields: []string{"guestName"},
		Message:       guestUpdatedMessage,
	}, nil
}

// asUpdateError keeps AppErrors raised inside a transaction and hides
// everything else behind a generic update failure.
func asUpdateError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrGuestUpdateFailed, err)
}

func (u GuestUpdate) trimmed() GuestUpdate {
	return GuestUpdate{
		FirstName: trimPtr(u.FirstName),
		LastName:  trimPtr(u.LastName),
		Address:   trimPtr(u.Address),
		DocType:   trimPtr(u.DocType),
		DocNumber: trimPtr(u.DocNumber),
	}
}

func (u GuestUpdate) isEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Address == nil && u.DocType == nil && u.DocNumber == nil
}

// nameColumns maps the supplied fields to columns of the name table, along
// with the request field names reported back to the caller.
func (u GuestUpdate) nameColumns() (map[string]interface{}, []string) {
	columns := make(map[string]interface{})
	fields := []string{}
	if u.FirstName != nil {
		columns["first"] = *u.FirstName
		fields = append(fields, "first_name")
	}
	if u.LastName != nil {
		columns["last"] = *u.LastName
		fields = append(fields, "last_name")
	}
	if u.DocType != nil {
		columns["id_type"] = *u.DocType
		fields = append(fields, "doc_type")
	}
	if u.DocNumber != nil {
		columns["id_number"] = *u.DocNumber
		fields = append(fields, "doc_number")
	}
	return columns, fields
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
