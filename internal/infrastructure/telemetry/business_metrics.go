// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for order fulfillment.
// It tracks placed orders, payment transitions, provisioned shipments and
// the outbox backlog.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	ordersPlacedTotal         *Counter
	orderAmountTotal          *Counter
	paymentTransitionsTotal   *Counter
	shipmentsProvisionedTotal *Counter

	// Gauge metrics (point-in-time values)
	outboxEntries *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	outboxProvider OutboxStatsProvider
}

// OutboxStatsProvider reports the number of outbox entries per status.
// event.GormOutboxRepository satisfies it.
type OutboxStatsProvider interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter          metric.Meter
	Logger         *zap.Logger
	OutboxProvider OutboxStatsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		outboxProvider: cfg.OutboxProvider,
	}

	var err error

	bm.ordersPlacedTotal, err = NewCounter(
		cfg.Meter,
		"fulfillment_orders_placed_total",
		"Total number of orders placed",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"fulfillment_order_amount_total",
		"Total amount of placed orders in minor currency units",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.paymentTransitionsTotal, err = NewCounter(
		cfg.Meter,
		"fulfillment_payment_transitions_total",
		"Total number of applied payment status transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	bm.shipmentsProvisionedTotal, err = NewCounter(
		cfg.Meter,
		"fulfillment_shipments_provisioned_total",
		"Total number of shipments provisioned",
		"{shipments}",
	)
	if err != nil {
		return nil, err
	}

	bm.outboxEntries, err = NewGauge(
		cfg.Meter,
		"fulfillment_outbox_entries",
		"Current number of outbox entries by status",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Fulfillment Metrics
// =============================================================================

// RecordOrderPlaced counts a placed order and adds its amount.
// The amount is recorded in minor units (amount x 100, truncated).
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, paymentMethod string, amount decimal.Decimal) {
	bm.ordersPlacedTotal.Inc(ctx, AttrPaymentMethod.String(paymentMethod))

	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.orderAmountTotal.Add(ctx, cents, AttrPaymentMethod.String(paymentMethod))
}

// RecordPaymentTransition counts an applied payment status change
func (bm *BusinessMetrics) RecordPaymentTransition(ctx context.Context, paymentMethod, from, to string) {
	bm.paymentTransitionsTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
		AttrFromStatus.String(from),
		AttrToStatus.String(to),
	)
}

// RecordShipmentProvisioned counts a provisioned shipment
func (bm *BusinessMetrics) RecordShipmentProvisioned(ctx context.Context, carrier string) {
	bm.shipmentsProvisionedTotal.Inc(ctx, AttrCarrier.String(carrier))
}

// RecordOutboxEntries records the current outbox entry count for a status.
func (bm *BusinessMetrics) RecordOutboxEntries(ctx context.Context, status shared.OutboxStatus, count int64) {
	bm.outboxEntries.Record(ctx, count, AttrOutboxStatus.String(string(status)))
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics
// (default interval: 1 minute). It is non-blocking; use Stop() to stop it.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.CollectOutboxMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.CollectOutboxMetrics(ctx)
		}
	}
}

// CollectOutboxMetrics samples the outbox backlog once. Every known status is
// recorded so that drained statuses drop back to zero.
func (bm *BusinessMetrics) CollectOutboxMetrics(ctx context.Context) {
	if bm.outboxProvider == nil {
		bm.logger.Debug("No outbox provider configured, skipping outbox metrics collection")
		return
	}

	counts, err := bm.outboxProvider.CountByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count outbox entries", zap.Error(err))
		return
	}

	for _, status := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		bm.RecordOutboxEntries(ctx, status, counts[status])
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
