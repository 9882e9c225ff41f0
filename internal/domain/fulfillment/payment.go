package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the buyer settles an order
type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// AllPaymentMethods lists the supported methods
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCOD, PaymentMethodCard, PaymentMethodEWallet, PaymentMethodBankTransfer}
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCard, PaymentMethodEWallet, PaymentMethodBankTransfer:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}

// ShipsOnCheckout reports whether the shipment is provisioned at order creation.
// Only cash on delivery ships before the payment is settled.
func (m PaymentMethod) ShipsOnCheckout() bool {
	return m == PaymentMethodCOD
}

// ParsePaymentMethod parses a method name case-insensitively
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", invalidInput("unsupported payment method %q", s)
	}
	return m, nil
}

// PaymentStatus is the settlement state of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// ParsePaymentStatus parses a status name case-insensitively
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", invalidInput("unsupported payment status %q", s)
	}
	return st, nil
}

// Payment settles exactly one order
type Payment struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID
	BuyerID       uuid.UUID // owning order's buyer, read only
	TransactionID string
	Method        PaymentMethod
	Amount        decimal.Decimal
	Status        PaymentStatus
	PaymentDate   *time.Time
}

// NewPayment creates a pending payment for the full order amount
func NewPayment(order *Order, method PaymentMethod, transactionID string, now time.Time) (*Payment, error) {
	if order == nil {
		return nil, invalidInput("order is required")
	}
	if !method.IsValid() {
		return nil, invalidInput("unsupported payment method %q", method)
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, invalidInput("transaction id is required")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRootAt(now),
		OrderID:           order.ID,
		BuyerID:           order.UserID,
		TransactionID:     transactionID,
		Method:            method,
		Amount:            order.TotalAmount,
		Status:            PaymentStatusPending,
	}, nil
}

// PlanTransition resolves the move to status `to` against the transition table
func (p *Payment) PlanTransition(to PaymentStatus) (TransitionPlan, error) {
	effect, err := ResolveTransition(p.Status, to)
	if err != nil {
		return TransitionPlan{}, err
	}
	// cash on delivery already shipped at checkout
	if effect != EffectNone && p.Method.ShipsOnCheckout() {
		effect = EffectNone
	}
	return TransitionPlan{
		From:   p.Status,
		To:     to,
		Effect: effect,
		NoOp:   p.Status == to,
	}, nil
}

// Apply moves the in-memory payment to the planned status after the store
// accepted the change, and records the status change event
func (p *Payment) Apply(plan TransitionPlan, paymentDate *time.Time, now time.Time) {
	if plan.NoOp {
		return
	}
	p.Status = plan.To
	if paymentDate != nil {
		p.PaymentDate = paymentDate
	}
	p.IncrementVersion()
	p.Touch(now)
	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, plan.From))
}
