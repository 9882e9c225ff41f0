package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/shared"
)

// Address is a postal destination owned by a buyer
type Address struct {
	shared.BaseEntity
	UserID   uuid.UUID
	Street   string
	Ward     string
	District string
	Province string
	ZipCode  string
	Country  string
}

// AddressFields carries the caller supplied parts of an address
type AddressFields struct {
	Street   string
	Ward     string
	District string
	Province string
	ZipCode  string
	Country  string
}

// NewAddress creates an address for the buyer
func NewAddress(userID uuid.UUID, fields AddressFields, now time.Time) (*Address, error) {
	if userID == uuid.Nil {
		return nil, invalidInput("address owner is required")
	}
	fields = fields.trimmed()
	if fields.Street == "" {
		return nil, invalidInput("street is required")
	}
	if fields.Province == "" {
		return nil, invalidInput("province is required")
	}
	if fields.Country == "" {
		return nil, invalidInput("country is required")
	}

	return &Address{
		BaseEntity: shared.NewBaseEntityAt(now),
		UserID:     userID,
		Street:     fields.Street,
		Ward:       fields.Ward,
		District:   fields.District,
		Province:   fields.Province,
		ZipCode:    fields.ZipCode,
		Country:    fields.Country,
	}, nil
}

func (f AddressFields) trimmed() AddressFields {
	return AddressFields{
		Street:   strings.TrimSpace(f.Street),
		Ward:     strings.TrimSpace(f.Ward),
		District: strings.TrimSpace(f.District),
		Province: strings.TrimSpace(f.Province),
		ZipCode:  strings.TrimSpace(f.ZipCode),
		Country:  strings.TrimSpace(f.Country),
	}
}
