package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/shared"
)

// AddressRepository persists addresses
type AddressRepository interface {
	Create(ctx context.Context, address *Address) error
}

// OrderRepository persists orders and reads back their full graph
type OrderRepository interface {
	// Create inserts the order row only; items are written separately
	Create(ctx context.Context, order *Order) error
	// FindGraph loads the order with its address, items, payment and shipments
	FindGraph(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByBuyer lists a buyer's orders (without the graph) newest first
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
}

// OrderItemRepository persists order lines
type OrderItemRepository interface {
	Create(ctx context.Context, item *OrderItem) error
}

// PaymentRepository persists payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	// FindByID loads a payment together with its order's buyer
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Payment, error)
	// TransitionStatus moves the payment to `to` only if it is still in `from`.
	// It reports whether this call applied the change.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to PaymentStatus, paymentDate *time.Time) (bool, error)
}

// ShipmentRepository persists shipments
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *Shipment) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]Shipment, error)
	CountByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error)
}

// EventRecorder writes domain events to the outbox of the current transaction
type EventRecorder interface {
	Record(ctx context.Context, events ...shared.DomainEvent) error
}

// LedgerTx is a handle on one open ledger transaction. Every repository it
// returns reads and writes inside that transaction.
type LedgerTx interface {
	Addresses() AddressRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Payments() PaymentRepository
	Shipments() ShipmentRepository
	Events() EventRecorder
}

// Ledger runs units of work atomically. fn's changes are committed when it
// returns nil and rolled back when it returns an error or panics.
type Ledger interface {
	Execute(ctx context.Context, fn func(tx LedgerTx) error) error
}
