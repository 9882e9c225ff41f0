package fulfillment

import (
	"fmt"

	"github.com/shopcore/fulfillment/internal/domain/shared"
)

// TransitionEffect is the side effect that accompanies a status change
type TransitionEffect int

const (
	EffectNone TransitionEffect = iota
	EffectProvisionShipment
	// EffectProvisionIfMissing provisions only when the order has no shipment yet
	EffectProvisionIfMissing
)

func (e TransitionEffect) String() string {
	switch e {
	case EffectProvisionShipment:
		return "provision_shipment"
	case EffectProvisionIfMissing:
		return "provision_if_missing"
	default:
		return "none"
	}
}

// PaymentTransition is a (from, to) status pair
type PaymentTransition struct {
	From PaymentStatus
	To   PaymentStatus
}

// paymentTransitions maps every pair of known statuses to its side effect.
// Only PENDING to PAID provisions unconditionally. A payment that reaches PAID
// from FAILED or REFUNDED gets a shipment only if its order has none.
var paymentTransitions = map[PaymentTransition]TransitionEffect{
	{PaymentStatusPending, PaymentStatusPending}:  EffectNone,
	{PaymentStatusPending, PaymentStatusPaid}:     EffectProvisionShipment,
	{PaymentStatusPending, PaymentStatusFailed}:   EffectNone,
	{PaymentStatusPending, PaymentStatusRefunded}: EffectNone,

	{PaymentStatusPaid, PaymentStatusPaid}:     EffectNone,
	{PaymentStatusPaid, PaymentStatusPending}:  EffectNone,
	{PaymentStatusPaid, PaymentStatusFailed}:   EffectNone,
	{PaymentStatusPaid, PaymentStatusRefunded}: EffectNone,

	{PaymentStatusFailed, PaymentStatusFailed}:   EffectNone,
	{PaymentStatusFailed, PaymentStatusPending}:  EffectNone,
	{PaymentStatusFailed, PaymentStatusPaid}:     EffectProvisionIfMissing,
	{PaymentStatusFailed, PaymentStatusRefunded}: EffectNone,

	{PaymentStatusRefunded, PaymentStatusRefunded}: EffectNone,
	{PaymentStatusRefunded, PaymentStatusPending}:  EffectNone,
	{PaymentStatusRefunded, PaymentStatusPaid}:     EffectProvisionIfMissing,
	{PaymentStatusRefunded, PaymentStatusFailed}:   EffectNone,
}

// ResolveTransition looks up the effect of moving from one status to another
func ResolveTransition(from, to PaymentStatus) (TransitionEffect, error) {
	if !to.IsValid() {
		return EffectNone, shared.NewDomainError(ErrInvalidPaymentTransition.Code,
			fmt.Sprintf("unknown payment status %q", to))
	}
	effect, ok := paymentTransitions[PaymentTransition{From: from, To: to}]
	if !ok {
		return EffectNone, shared.NewDomainError(ErrInvalidPaymentTransition.Code,
			fmt.Sprintf("payment cannot move from %s to %s", from, to))
	}
	return effect, nil
}

// CanTransition reports whether the table allows the move
func CanTransition(from, to PaymentStatus) bool {
	_, err := ResolveTransition(from, to)
	return err == nil
}

// TransitionPlan is a resolved transition for a specific payment
type TransitionPlan struct {
	From   PaymentStatus
	To     PaymentStatus
	Effect TransitionEffect
	NoOp   bool
}

// ProvisionsShipment reports whether the plan may create a shipment
func (p TransitionPlan) ProvisionsShipment() bool {
	return !p.NoOp && p.Effect != EffectNone
}

// RequiresShipmentCheck reports whether provisioning depends on the order
// having no shipment yet
func (p TransitionPlan) RequiresShipmentCheck() bool {
	return p.ProvisionsShipment() && p.Effect == EffectProvisionIfMissing
}
