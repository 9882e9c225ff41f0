package persistence

import (
	"context"

	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAddressRepository implements fulfillment.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Create inserts a new address
func (r *GormAddressRepository) Create(ctx context.Context, address *fulfillment.Address) error {
	return r.db.WithContext(ctx).Create(models.AddressModelFromDomain(address)).Error
}

var _ fulfillment.AddressRepository = (*GormAddressRepository)(nil)
