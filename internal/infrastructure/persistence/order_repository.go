package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements fulfillment.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order row. Associations are skipped; items, payment and
// shipments have their own repositories.
func (r *GormOrderRepository) Create(ctx context.Context, order *fulfillment.Order) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(models.OrderModelFromDomain(order)).Error
}

// FindGraph loads an order with its shipping address, items (in checkout
// order), payment and shipments
func (r *GormOrderRepository) FindGraph(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("ShippingAddress").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Payment").
		Preload("Shipments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByBuyer returns one page of a buyer's orders and the buyer's total order count
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]fulfillment.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("user_id = ?", buyerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = shared.DefaultFilter().PageSize
	}
	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "order_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", buyerID).
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]fulfillment.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

var _ fulfillment.OrderRepository = (*GormOrderRepository)(nil)
