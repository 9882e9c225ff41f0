package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockLedger runs the unit of work against a fixed set of mocked repositories
type MockLedger struct {
	mock.Mock
	tx *stubTx
}

func (m *MockLedger) Execute(ctx context.Context, fn func(tx fulfillment.LedgerTx) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.tx)
}

type stubTx struct {
	addresses  *MockAddressRepository
	orders     *MockOrderRepository
	orderItems *MockOrderItemRepository
	payments   *MockPaymentRepository
	shipments  *MockShipmentRepository
	events     *MockEventRecorder
}

func newStubTx() *stubTx {
	return &stubTx{
		addresses:  new(MockAddressRepository),
		orders:     new(MockOrderRepository),
		orderItems: new(MockOrderItemRepository),
		payments:   new(MockPaymentRepository),
		shipments:  new(MockShipmentRepository),
		events:     new(MockEventRecorder),
	}
}

func (t *stubTx) Addresses() fulfillment.AddressRepository { return t.addresses }
func (t *stubTx) Orders() fulfillment.OrderRepository { return t.orders }
func (t *stubTx) OrderItems() fulfillment.OrderItemRepository { return t.orderItems }
func (t *stubTx) Payments() fulfillment.PaymentRepository { return t.payments }
func (t *stubTx) Shipments() fulfillment.ShipmentRepository { return t.shipments }
func (t *stubTx) Events() fulfillment.EventRecorder { return t.events }

// MockAddressRepository is a mock implementation of AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, address *fulfillment.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *fulfillment.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindGraph(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]fulfillment.Order, int64, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]fulfillment.Order), args.Get(1).(int64), args.Error(2)
}

// MockOrderItemRepository is a mock implementation of OrderItemRepository
type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) Create(ctx context.Context, item *fulfillment.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *fulfillment.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*fulfillment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to fulfillment.PaymentStatus, paymentDate *time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, paymentDate)
	return args.Bool(0), args.Error(1)
}

// MockShipmentRepository is a mock implementation of ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Create(ctx context.Context, shipment *fulfillment.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]fulfillment.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) CountByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRecorder is a mock implementation of EventRecorder
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fixedGenerator returns predictable identifiers
type fixedGenerator struct {
	tracking string
	txID     string
}

func (g fixedGenerator) TrackingNumber(uuid.UUID, uuid.UUID) string { return g.tracking }
func (g fixedGenerator) TransactionID(uuid.UUID, uuid.UUID) string { return g.txID }
