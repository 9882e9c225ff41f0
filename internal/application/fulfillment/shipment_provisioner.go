package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/infrastructure/telemetry"
)

// ProvisionRequest describes the shipment to create for an order
type ProvisionRequest struct {
	OrderID          uuid.UUID
	BuyerID          uuid.UUID
	Carrier          string
	ProcessByStaffID *uuid.UUID
}

// ShipmentProvisioner creates shipments inside the caller's ledger transaction.
// It does not check for existing shipments; callers gate it so that an order
// gets at most one.
type ShipmentProvisioner struct {
	policy    fulfillment.ShipmentPolicy
	generator fulfillment.IdentifierGenerator
	now       func() time.Time
}

// ProvisionerOption configures a ShipmentProvisioner
type ProvisionerOption func(*ShipmentProvisioner)

// WithProvisionerClock overrides the clock used for dates
func WithProvisionerClock(now func() time.Time) ProvisionerOption {
	return func(p *ShipmentProvisioner) {
		p.now = now
	}
}

// NewShipmentProvisioner creates a new ShipmentProvisioner
func NewShipmentProvisioner(
	policy fulfillment.ShipmentPolicy,
	generator fulfillment.IdentifierGenerator,
	opts ...ProvisionerOption,
) *ShipmentProvisioner {
	p := &ShipmentProvisioner{
		policy:    policy,
		generator: generator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision creates one WAITING_FOR_PICKUP shipment and records ShipmentProvisioned
func (p *ShipmentProvisioner) Provision(ctx context.Context, tx fulfillment.LedgerTx, req ProvisionRequest) (*fulfillment.Shipment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shipment", "provision",
		telemetry.SpanAttrOrderID, req.OrderID,
	)
	defer span.End()

	now := p.now()
	shipment, err := fulfillment.NewShipment(
		req.OrderID,
		p.policy.CarrierOr(req.Carrier),
		p.generator.TrackingNumber(req.OrderID, req.BuyerID),
		p.policy.Estimate(now),
		req.ProcessByStaffID,
		now,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrShipmentID, shipment.ID,
		telemetry.SpanAttrTrackingNumber, shipment.TrackingNumber,
		telemetry.SpanAttrCarrier, shipment.Carrier,
	)

	if err := tx.Shipments().Create(ctx, shipment); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create shipment: %w", err)
	}
	if err := tx.Events().Record(ctx, fulfillment.NewShipmentProvisionedEvent(shipment, req.BuyerID)); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("record shipment event: %w", err)
	}
	return shipment, nil
}
