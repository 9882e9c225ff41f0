package fulfillment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordedMetric struct {
	name   string
	labels []string
	amount decimal.Decimal
}

type fakeMetrics struct {
	recorded []recordedMetric
}

func (m *fakeMetrics) RecordOrderPlaced(_ context.Context, method string, amount decimal.Decimal) {
	m.recorded = append(m.recorded, recordedMetric{name: "order_placed", labels: []string{method}, amount: amount})
}

func (m *fakeMetrics) RecordPaymentTransition(_ context.Context, method, from, to string) {
	m.recorded = append(m.recorded, recordedMetric{name: "payment_transition", labels: []string{method, from, to}})
}

func (m *fakeMetrics) RecordShipmentProvisioned(_ context.Context, carrier string) {
	m.recorded = append(m.recorded, recordedMetric{name: "shipment_provisioned", labels: []string{carrier}})
}

func sampleEvents(t *testing.T) (*fulfillment.OrderPlacedEvent, *fulfillment.PaymentStatusChangedEvent, *fulfillment.ShipmentProvisionedEvent) {
	t.Helper()
	payment := pendingPayment(t, fulfillment.PaymentMethodCOD)
	order := &fulfillment.Order{UserID: payment.BuyerID, TotalAmount: dec("140"), OrderDate: provisionNow}
	order.ID = payment.OrderID

	placed := fulfillment.NewOrderPlacedEvent(order, payment)

	plan, err := payment.PlanTransition(fulfillment.PaymentStatusPaid)
	require.NoError(t, err)
	payment.Apply(plan, &provisionNow, provisionNow)
	changed := fulfillment.NewPaymentStatusChangedEvent(payment, fulfillment.PaymentStatusPending)

	shipment, err := fulfillment.NewShipment(order.ID, "GHN", "TRK-9",
		fulfillment.DefaultShipmentPolicy().Estimate(provisionNow), nil, provisionNow)
	require.NoError(t, err)
	provisioned := fulfillment.NewShipmentProvisionedEvent(shipment, order.UserID)

	return placed, changed, provisioned
}

func TestFulfillmentMetricsHandler_Handle(t *testing.T) {
	metrics := &fakeMetrics{}
	h := NewFulfillmentMetricsHandler(metrics)
	placed, changed, provisioned := sampleEvents(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, placed))
	require.NoError(t, h.Handle(ctx, changed))
	require.NoError(t, h.Handle(ctx, provisioned))

	require.Len(t, metrics.recorded, 3)
	assert.Equal(t, "order_placed", metrics.recorded[0].name)
	assert.Equal(t, []string{"COD"}, metrics.recorded[0].labels)
	assert.True(t, metrics.recorded[0].amount.Equal(dec("140")))
	assert.Equal(t, []string{"COD", "PENDING", "PAID"}, metrics.recorded[1].labels)
	assert.Equal(t, []string{"GHN"}, metrics.recorded[2].labels)

	assert.ElementsMatch(t, []string{
		fulfillment.EventTypeOrderPlaced,
		fulfillment.EventTypePaymentStatusChanged,
		fulfillment.EventTypeShipmentProvisioned,
	}, h.EventTypes())
}

func TestFulfillmentMetricsHandler_RejectsForeignEvent(t *testing.T) {
	h := NewFulfillmentMetricsHandler(&fakeMetrics{})
	evt := shared.NewBaseDomainEvent("catalog.product.created", "Product", uuid.New())

	assert.Error(t, h.Handle(context.Background(), &evt))
}

func TestShipmentNotificationLogger_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewShipmentNotificationLogger(zap.New(core))
	_, changed, provisioned := sampleEvents(t)

	require.NoError(t, h.Handle(context.Background(), provisioned))
	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	assert.Equal(t, "shipment waiting for pickup", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "TRK-9", fields["tracking_number"])
	assert.Equal(t, "GHN", fields["carrier"])

	assert.Error(t, h.Handle(context.Background(), changed))
	assert.Equal(t, []string{fulfillment.EventTypeShipmentProvisioned}, h.EventTypes())
}
