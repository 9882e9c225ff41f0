package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/shared"
)

// ShipmentStatus is the carrier-side state of a shipment
type ShipmentStatus string

const (
	ShipmentStatusWaitingForPickup ShipmentStatus = "WAITING_FOR_PICKUP"
	ShipmentStatusInTransit        ShipmentStatus = "IN_TRANSIT"
	ShipmentStatusDelivered        ShipmentStatus = "DELIVERED"
	ShipmentStatusReturned         ShipmentStatus = "RETURNED"
)

func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusWaitingForPickup, ShipmentStatusInTransit, ShipmentStatusDelivered, ShipmentStatusReturned:
		return true
	}
	return false
}

func (s ShipmentStatus) String() string {
	return string(s)
}

// Shipment is a carrier hand-off record for an order
type Shipment struct {
	shared.BaseEntity
	OrderID           uuid.UUID
	ProcessByStaffID  *uuid.UUID
	Carrier           string
	TrackingNumber    string
	EstimatedShipDate time.Time
	EstimatedDelivery time.Time
	Status            ShipmentStatus
}

// ShipmentSchedule holds the estimated dates of a shipment
type ShipmentSchedule struct {
	ShipDate     time.Time
	DeliveryDate time.Time
}

// NewShipment creates a shipment waiting for carrier pickup
func NewShipment(orderID uuid.UUID, carrier, trackingNumber string, schedule ShipmentSchedule, staffID *uuid.UUID, now time.Time) (*Shipment, error) {
	if orderID == uuid.Nil {
		return nil, invalidInput("shipment order is required")
	}
	carrier = strings.TrimSpace(carrier)
	if carrier == "" {
		return nil, invalidInput("carrier is required")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, invalidInput("tracking number is required")
	}

	return &Shipment{
		BaseEntity:        shared.NewBaseEntityAt(now),
		OrderID:           orderID,
		ProcessByStaffID:  staffID,
		Carrier:           carrier,
		TrackingNumber:    trackingNumber,
		EstimatedShipDate: schedule.ShipDate,
		EstimatedDelivery: schedule.DeliveryDate,
		Status:            ShipmentStatusWaitingForPickup,
	}, nil
}

const (
	DefaultShipOffset     = 48 * time.Hour
	DefaultDeliveryOffset = 24 * time.Hour
	DefaultCarrier        = "Standard Courier"
)

// ShipmentPolicy configures how new shipments are scheduled.
// DeliveryOffset is measured from now, not from the ship date.
type ShipmentPolicy struct {
	ShipOffset     time.Duration
	DeliveryOffset time.Duration
	DefaultCarrier string
}

// DefaultShipmentPolicy returns ship in two days, deliver in one day
func DefaultShipmentPolicy() ShipmentPolicy {
	return ShipmentPolicy{
		ShipOffset:     DefaultShipOffset,
		DeliveryOffset: DefaultDeliveryOffset,
		DefaultCarrier: DefaultCarrier,
	}
}

// Estimate computes the schedule for a shipment provisioned at now
func (p ShipmentPolicy) Estimate(now time.Time) ShipmentSchedule {
	return ShipmentSchedule{
		ShipDate:     now.Add(p.ShipOffset),
		DeliveryDate: now.Add(p.DeliveryOffset),
	}
}

// CarrierOr returns carrier, or the policy default when carrier is blank
func (p ShipmentPolicy) CarrierOr(carrier string) string {
	if c := strings.TrimSpace(carrier); c != "" {
		return c
	}
	return p.DefaultCarrier
}
