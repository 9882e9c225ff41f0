package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements fulfillment.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *fulfillment.Payment) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(models.PaymentModelFromDomain(payment)).Error
}

// FindByID finds a payment by ID. The owning order is joined in to resolve the buyer.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Payment, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderID finds the payment of an order
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*fulfillment.Payment, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

func (r *GormPaymentRepository) findOne(ctx context.Context, query string, arg any) (*fulfillment.Payment, error) {
	var m models.PaymentModel
	if err := r.db.WithContext(ctx).
		Preload("Order").
		Where(query, arg).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var buyerID uuid.UUID
	if m.Order != nil {
		buyerID = m.Order.UserID
	}
	return m.ToDomain(buyerID), nil
}

// TransitionStatus is a compare-and-set on the payment status: the row is
// updated only while it still holds `from`. Of several concurrent callers
// at most one observes applied == true.
func (r *GormPaymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to fulfillment.PaymentStatus, paymentDate *time.Time) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
		"version":    gorm.Expr("version + 1"),
	}
	if paymentDate != nil {
		updates["payment_date"] = *paymentDate
	}

	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

var _ fulfillment.PaymentRepository = (*GormPaymentRepository)(nil)
