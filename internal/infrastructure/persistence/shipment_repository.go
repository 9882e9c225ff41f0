package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShipmentRepository implements fulfillment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Create inserts a shipment. A duplicate tracking number is reported as
// gorm.ErrDuplicatedKey when error translation is enabled.
func (r *GormShipmentRepository) Create(ctx context.Context, shipment *fulfillment.Shipment) error {
	return r.db.WithContext(ctx).Create(models.ShipmentModelFromDomain(shipment)).Error
}

// FindByOrderID lists an order's shipments, oldest first
func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]fulfillment.Shipment, error) {
	var rows []models.ShipmentModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	shipments := make([]fulfillment.Shipment, len(rows))
	for i := range rows {
		shipments[i] = *rows[i].ToDomain()
	}
	return shipments, nil
}

// CountByOrderID counts an order's shipments
func (r *GormShipmentRepository) CountByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

var _ fulfillment.ShipmentRepository = (*GormShipmentRepository)(nil)
