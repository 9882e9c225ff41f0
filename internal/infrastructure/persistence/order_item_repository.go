package persistence

import (
	"context"

	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderItemRepository implements fulfillment.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// Create inserts one order line
func (r *GormOrderItemRepository) Create(ctx context.Context, item *fulfillment.OrderItem) error {
	return r.db.WithContext(ctx).Create(models.OrderItemModelFromDomain(item)).Error
}

var _ fulfillment.OrderItemRepository = (*GormOrderItemRepository)(nil)
