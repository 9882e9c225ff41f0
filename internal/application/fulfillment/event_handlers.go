package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FulfillmentMetrics records business counters for the fulfillment flow
type FulfillmentMetrics interface {
	RecordOrderPlaced(ctx context.Context, paymentMethod string, amount decimal.Decimal)
	RecordPaymentTransition(ctx context.Context, paymentMethod, from, to string)
	RecordShipmentProvisioned(ctx context.Context, carrier string)
}

// FulfillmentMetricsHandler feeds business metrics from relayed fulfillment events
type FulfillmentMetricsHandler struct {
	metrics FulfillmentMetrics
}

// NewFulfillmentMetricsHandler creates a new FulfillmentMetricsHandler
func NewFulfillmentMetricsHandler(metrics FulfillmentMetrics) *FulfillmentMetricsHandler {
	return &FulfillmentMetricsHandler{metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *FulfillmentMetricsHandler) EventTypes() []string {
	return []string{
		fulfillment.EventTypeOrderPlaced,
		fulfillment.EventTypePaymentStatusChanged,
		fulfillment.EventTypeShipmentProvisioned,
	}
}

// Handle records the metric matching the event
func (h *FulfillmentMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *fulfillment.OrderPlacedEvent:
		h.metrics.RecordOrderPlaced(ctx, e.PaymentMethod.String(), e.TotalAmount)
	case *fulfillment.PaymentStatusChangedEvent:
		h.metrics.RecordPaymentTransition(ctx, e.Method.String(), e.FromStatus.String(), e.ToStatus.String())
	case *fulfillment.ShipmentProvisionedEvent:
		h.metrics.RecordShipmentProvisioned(ctx, e.Carrier)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

// ShipmentNotificationLogger logs every provisioned shipment for the
// warehouse pickup feed
type ShipmentNotificationLogger struct {
	logger *zap.Logger
}

// NewShipmentNotificationLogger creates a new ShipmentNotificationLogger
func NewShipmentNotificationLogger(logger *zap.Logger) *ShipmentNotificationLogger {
	return &ShipmentNotificationLogger{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ShipmentNotificationLogger) EventTypes() []string {
	return []string{fulfillment.EventTypeShipmentProvisioned}
}

// Handle logs the shipment awaiting pickup
func (h *ShipmentNotificationLogger) Handle(_ context.Context, event shared.DomainEvent) error {
	e, ok := event.(*fulfillment.ShipmentProvisionedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			fulfillment.EventTypeShipmentProvisioned, event.EventType())
	}

	h.logger.Info("shipment waiting for pickup",
		zap.String("event_id", e.EventID().String()),
		zap.String("shipment_id", e.ShipmentID.String()),
		zap.String("order_id", e.OrderID.String()),
		zap.String("buyer_id", e.BuyerID.String()),
		zap.String("carrier", e.Carrier),
		zap.String("tracking_number", e.TrackingNumber),
		zap.Time("estimated_ship_date", e.EstimatedShipDate),
		zap.Time("estimated_delivery", e.EstimatedDelivery),
	)
	return nil
}

var (
	_ shared.EventHandler = (*FulfillmentMetricsHandler)(nil)
	_ shared.EventHandler = (*ShipmentNotificationLogger)(nil)
)
