package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder   = "Order"
	AggregateTypePayment = "Payment"
)

// Event type constants
const (
	EventTypeOrderPlaced          = "fulfillment.order.placed"
	EventTypePaymentStatusChanged = "fulfillment.payment.status_changed"
	EventTypeShipmentProvisioned  = "fulfillment.shipment.provisioned"
)

// OrderPlacedEvent is raised when a checkout is committed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	Discount      decimal.Decimal `json:"discount"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

func NewOrderPlacedEvent(order *Order, payment *Payment) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEventAt(EventTypeOrderPlaced, AggregateTypeOrder, order.ID, order.OrderDate),
		OrderID:         order.ID,
		BuyerID:         order.UserID,
		PaymentID:       payment.ID,
		PaymentMethod:   payment.Method,
		ItemCount:       len(order.Items),
		SubTotal:        order.SubTotal,
		Discount:        order.Discount,
		ShippingFee:     order.ShippingFee,
		TotalAmount:     order.TotalAmount,
	}
}

func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}

// PaymentStatusChangedEvent is raised when a payment moves to a new status
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	Method        PaymentMethod   `json:"method"`
	FromStatus    PaymentStatus   `json:"from_status"`
	ToStatus      PaymentStatus   `json:"to_status"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
}

func NewPaymentStatusChangedEvent(payment *Payment, from PaymentStatus) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEventAt(EventTypePaymentStatusChanged, AggregateTypePayment, payment.ID, payment.UpdatedAt),
		PaymentID:       payment.ID,
		OrderID:         payment.OrderID,
		BuyerID:         payment.BuyerID,
		Method:          payment.Method,
		FromStatus:      from,
		ToStatus:        payment.Status,
		Amount:          payment.Amount,
		TransactionID:   payment.TransactionID,
	}
}

func (e *PaymentStatusChangedEvent) EventType() string {
	return EventTypePaymentStatusChanged
}

// ShipmentProvisionedEvent is raised when a shipment is created for an order
type ShipmentProvisionedEvent struct {
	shared.BaseDomainEvent
	ShipmentID        uuid.UUID `json:"shipment_id"`
	OrderID           uuid.UUID `json:"order_id"`
	BuyerID           uuid.UUID `json:"buyer_id"`
	Carrier           string    `json:"carrier"`
	TrackingNumber    string    `json:"tracking_number"`
	EstimatedShipDate time.Time `json:"estimated_ship_date"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

func NewShipmentProvisionedEvent(shipment *Shipment, buyerID uuid.UUID) *ShipmentProvisionedEvent {
	return &ShipmentProvisionedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEventAt(EventTypeShipmentProvisioned, AggregateTypeOrder, shipment.OrderID, shipment.CreatedAt),
		ShipmentID:        shipment.ID,
		OrderID:           shipment.OrderID,
		BuyerID:           buyerID,
		Carrier:           shipment.Carrier,
		TrackingNumber:    shipment.TrackingNumber,
		EstimatedShipDate: shipment.EstimatedShipDate,
		EstimatedDelivery: shipment.EstimatedDelivery,
	}
}

func (e *ShipmentProvisionedEvent) EventType() string {
	return EventTypeShipmentProvisioned
}
