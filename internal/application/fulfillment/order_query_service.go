package fulfillment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
)

// OrderQueryService serves read-only views of the ledger
type OrderQueryService struct {
	orders   fulfillment.OrderRepository
	payments fulfillment.PaymentRepository
}

// NewOrderQueryService creates a new OrderQueryService
func NewOrderQueryService(orders fulfillment.OrderRepository, payments fulfillment.PaymentRepository) *OrderQueryService {
	return &OrderQueryService{
		orders:   orders,
		payments: payments,
	}
}

// GetOrder returns the full order graph
func (s *OrderQueryService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindGraph(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fulfillment.ErrOrderNotFound
		}
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListOrdersByBuyer returns one page of the buyer's orders, newest first by default
func (s *OrderQueryService) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "buyer is required")
	}

	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = shared.DefaultFilter().PageSize
	}

	orders, total, err := s.orders.FindByBuyer(ctx, buyerID, f)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListItemResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// GetPayment returns one payment
func (s *OrderQueryService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fulfillment.ErrPaymentNotFound
		}
		return nil, err
	}
	return ToPaymentResponse(payment), nil
}
