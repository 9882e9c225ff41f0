package handler

import (
	"context"

	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockFulfillmentService implements the order and payment service interfaces
type MockFulfillmentService struct {
	mock.Mock
}

func (m *MockFulfillmentService) PlaceOrder(ctx context.Context, in fulfillmentapp.CheckoutInput) (*fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockFulfillmentService) GetOrder(ctx context.Context, id uuid.UUID) (*fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockFulfillmentService) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, filter fulfillmentapp.OrderListFilter) (*shared.Paginated[fulfillmentapp.OrderListItemResponse], error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[fulfillmentapp.OrderListItemResponse]), args.Error(1)
}

func (m *MockFulfillmentService) GetPayment(ctx context.Context, id uuid.UUID) (*fulfillmentapp.PaymentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.PaymentResponse), args.Error(1)
}

func (m *MockFulfillmentService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, in fulfillmentapp.PaymentUpdateInput) (*fulfillmentapp.PaymentResponse, error) {
	args := m.Called(ctx, paymentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.PaymentResponse), args.Error(1)
}

var (
	_ OrderPlacer    = (*MockFulfillmentService)(nil)
	_ OrderReader    = (*MockFulfillmentService)(nil)
	_ PaymentUpdater = (*MockFulfillmentService)(nil)
	_ PaymentReader  = (*MockFulfillmentService)(nil)
)
