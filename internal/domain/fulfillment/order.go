package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// LineItem is one requested line of a checkout
type LineItem struct {
	ProductVariantID uuid.UUID
	Quantity         int
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	DiscountValue    *decimal.Decimal // nil counts as zero
}

// Discount returns the line discount, treating a missing value as zero
func (l LineItem) Discount() decimal.Decimal {
	if l.DiscountValue == nil {
		return decimal.Zero
	}
	return *l.DiscountValue
}

func (l LineItem) validate(position int) error {
	if l.ProductVariantID == uuid.Nil {
		return invalidInput("item %d: product variant is required", position)
	}
	if l.Quantity <= 0 {
		return invalidInput("item %d: quantity must be positive", position)
	}
	if l.UnitPrice.IsNegative() {
		return invalidInput("item %d: unit price cannot be negative", position)
	}
	if l.TotalPrice.IsNegative() {
		return invalidInput("item %d: total price cannot be negative", position)
	}
	if l.DiscountValue != nil && l.DiscountValue.IsNegative() {
		return invalidInput("item %d: discount cannot be negative", position)
	}
	return nil
}

// OrderItem is a persisted order line. TotalPrice is taken as supplied by
// the caller and never re-derived from quantity and unit price.
type OrderItem struct {
	shared.BaseEntity
	OrderID          uuid.UUID
	Position         int
	ProductVariantID uuid.UUID
	Quantity         int
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	DiscountValue    *decimal.Decimal
}

// OrderTotals holds the monetary summary of an order
type OrderTotals struct {
	SubTotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeTotals sums the lines: SubTotal is the sum of line totals, Discount the
// sum of line discounts, TotalAmount = SubTotal + ShippingFee - Discount.
func ComputeTotals(lines []LineItem, shippingFee decimal.Decimal) OrderTotals {
	subTotal := decimal.Zero
	discount := decimal.Zero
	for _, line := range lines {
		subTotal = subTotal.Add(line.TotalPrice)
		discount = discount.Add(line.Discount())
	}
	return OrderTotals{
		SubTotal:    subTotal,
		ShippingFee: shippingFee,
		Discount:    discount,
		TotalAmount: subTotal.Add(shippingFee).Sub(discount),
	}
}

// Order is the aggregate root of a checkout. The graph fields (ShippingAddress,
// Items, Payment, Shipments) are populated when read back from the ledger.
type Order struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID
	ShippingAddressID uuid.UUID
	ProcessByStaffID  *uuid.UUID
	OrderDate         time.Time
	Status            OrderStatus
	SubTotal          decimal.Decimal
	ShippingFee       decimal.Decimal
	Discount          decimal.Decimal
	TotalAmount       decimal.Decimal

	ShippingAddress *Address
	Items           []OrderItem
	Payment         *Payment
	Shipments       []Shipment
}

// NewOrder builds a pending order for the buyer shipping to address
func NewOrder(userID uuid.UUID, address *Address, lines []LineItem, shippingFee decimal.Decimal, now time.Time) (*Order, error) {
	if userID == uuid.Nil {
		return nil, invalidInput("buyer is required")
	}
	if address == nil {
		return nil, invalidInput("shipping address is required")
	}
	if len(lines) == 0 {
		return nil, invalidInput("order must contain at least one item")
	}
	if shippingFee.IsNegative() {
		return nil, invalidInput("shipping fee cannot be negative")
	}
	for i, line := range lines {
		if err := line.validate(i + 1); err != nil {
			return nil, err
		}
	}

	totals := ComputeTotals(lines, shippingFee)
	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(now),
		UserID:            userID,
		ShippingAddressID: address.ID,
		OrderDate:         now,
		Status:            OrderStatusPending,
		SubTotal:          totals.SubTotal,
		ShippingFee:       totals.ShippingFee,
		Discount:          totals.Discount,
		TotalAmount:       totals.TotalAmount,
		ShippingAddress:   address,
	}

	order.Items = make([]OrderItem, len(lines))
	for i, line := range lines {
		order.Items[i] = OrderItem{
			BaseEntity:       shared.NewBaseEntityAt(now),
			OrderID:          order.ID,
			Position:         i + 1,
			ProductVariantID: line.ProductVariantID,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
			TotalPrice:       line.TotalPrice,
			DiscountValue:    line.DiscountValue,
		}
	}

	return order, nil
}

// Totals returns the monetary summary of the order
func (o *Order) Totals() OrderTotals {
	return OrderTotals{
		SubTotal:    o.SubTotal,
		ShippingFee: o.ShippingFee,
		Discount:    o.Discount,
		TotalAmount: o.TotalAmount,
	}
}

// MarkPlaced attaches the payment and records the OrderPlaced event
func (o *Order) MarkPlaced(payment *Payment) {
	o.Payment = payment
	o.AddDomainEvent(NewOrderPlacedEvent(o, payment))
}
