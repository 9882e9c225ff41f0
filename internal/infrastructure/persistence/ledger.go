package persistence

import (
	"context"

	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxWriter stores domain events inside a caller-owned transaction
type OutboxWriter interface {
	PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error
}

// GormLedger implements fulfillment.Ledger using GORM transactions.
// Every repository handed to the unit of work is bound to the same *gorm.DB
// transaction, and recorded events land in the outbox of that transaction.
type GormLedger struct {
	db     *gorm.DB
	outbox OutboxWriter
}

// NewGormLedger creates a new GormLedger. outbox may be nil, in which case
// recorded events are dropped.
func NewGormLedger(db *gorm.DB, outbox OutboxWriter) *GormLedger {
	return &GormLedger{db: db, outbox: outbox}
}

// Execute runs fn within a database transaction.
// If fn returns an error (or panics) the transaction is rolled back.
func (l *GormLedger) Execute(ctx context.Context, fn func(tx fulfillment.LedgerTx) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerTx{tx: tx, outbox: l.outbox})
	})
}

type gormLedgerTx struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (t *gormLedgerTx) Addresses() fulfillment.AddressRepository {
	return NewGormAddressRepository(t.tx)
}

func (t *gormLedgerTx) Orders() fulfillment.OrderRepository {
	return NewGormOrderRepository(t.tx)
}

func (t *gormLedgerTx) OrderItems() fulfillment.OrderItemRepository {
	return NewGormOrderItemRepository(t.tx)
}

func (t *gormLedgerTx) Payments() fulfillment.PaymentRepository {
	return NewGormPaymentRepository(t.tx)
}

func (t *gormLedgerTx) Shipments() fulfillment.ShipmentRepository {
	return NewGormShipmentRepository(t.tx)
}

func (t *gormLedgerTx) Events() fulfillment.EventRecorder {
	return &outboxRecorder{tx: t.tx, outbox: t.outbox}
}

type outboxRecorder struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (r *outboxRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	if r.outbox == nil || len(events) == 0 {
		return nil
	}
	return r.outbox.PublishWithTx(ctx, r.tx, events...)
}

var (
	_ fulfillment.Ledger   = (*GormLedger)(nil)
	_ fulfillment.LedgerTx = (*gormLedgerTx)(nil)
)
