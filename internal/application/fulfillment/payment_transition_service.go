package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PaymentTransitionService applies payment status changes. A PENDING to PAID
// change provisions the order's shipment in the same ledger transaction; a
// late PAID after FAILED or REFUNDED provisions only for an order without one.
type PaymentTransitionService struct {
	ledger      fulfillment.Ledger
	provisioner *ShipmentProvisioner
	logger      *zap.Logger
	now         func() time.Time
}

// PaymentTransitionOption configures a PaymentTransitionService
type PaymentTransitionOption func(*PaymentTransitionService)

// WithPaymentClock overrides the clock used to stamp payment dates
func WithPaymentClock(now func() time.Time) PaymentTransitionOption {
	return func(s *PaymentTransitionService) {
		s.now = now
	}
}

// NewPaymentTransitionService creates a new PaymentTransitionService
func NewPaymentTransitionService(
	ledger fulfillment.Ledger,
	provisioner *ShipmentProvisioner,
	logger *zap.Logger,
	opts ...PaymentTransitionOption,
) *PaymentTransitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PaymentTransitionService{
		ledger:      ledger,
		provisioner: provisioner,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdatePayment moves the payment to the requested status.
//
// The status write is a compare-and-swap on the status that was read, so of
// two concurrent PAID confirmations only one provisions a shipment; the other
// returns the payment as it was committed by the winner.
func (s *PaymentTransitionService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, in PaymentUpdateInput) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "update",
		telemetry.SpanAttrPaymentID, paymentID,
		telemetry.SpanAttrTargetStatus, in.Status,
	)
	defer span.End()

	to, err := fulfillment.ParsePaymentStatus(in.Status)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var (
		result      *fulfillment.Payment
		plan        fulfillment.TransitionPlan
		lost        bool
		provisioned *fulfillment.Shipment
	)
	err = s.ledger.Execute(ctx, func(tx fulfillment.LedgerTx) error {
		payment, err := tx.Payments().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}

		telemetry.SetAttributes(span,
			telemetry.SpanAttrOrderID, payment.OrderID,
			telemetry.SpanAttrPaymentMethod, payment.Method.String(),
			telemetry.SpanAttrPaymentStatus, payment.Status.String(),
		)

		plan, err = payment.PlanTransition(to)
		if err != nil {
			return err
		}
		if plan.NoOp {
			result = payment
			return nil
		}

		now := s.now()
		paymentDate := in.PaymentDate
		if paymentDate == nil && to == fulfillment.PaymentStatusPaid {
			paymentDate = &now
		}

		applied, err := tx.Payments().TransitionStatus(ctx, payment.ID, plan.From, plan.To, paymentDate)
		if err != nil {
			return fmt.Errorf("transition payment: %w", err)
		}
		if !applied {
			lost = true
			result, err = tx.Payments().FindByID(ctx, payment.ID)
			return err
		}
		payment.Apply(plan, paymentDate, now)

		provision := plan.ProvisionsShipment()
		if provision && plan.RequiresShipmentCheck() {
			existing, err := tx.Shipments().CountByOrderID(ctx, payment.OrderID)
			if err != nil {
				return fmt.Errorf("count shipments: %w", err)
			}
			provision = existing == 0
		}
		if provision {
			provisioned, err = s.provisioner.Provision(ctx, tx, ProvisionRequest{
				OrderID:          payment.OrderID,
				BuyerID:          payment.BuyerID,
				Carrier:          in.Carrier,
				ProcessByStaffID: in.ProcessByStaffID,
			})
			if err != nil {
				return fmt.Errorf("provision shipment: %w", err)
			}
		}

		if err := tx.Events().Record(ctx, payment.GetDomainEvents()...); err != nil {
			return fmt.Errorf("record payment events: %w", err)
		}
		payment.ClearDomainEvents()
		result = payment
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			return nil, fulfillment.ErrPaymentNotFound
		case errors.Is(err, fulfillment.ErrInvalidPaymentTransition):
			return nil, err
		}
		s.logger.Error("payment update failed",
			zap.String("payment_id", paymentID.String()),
			zap.String("to_status", to.String()),
			zap.Error(err),
		)
		return nil, fulfillment.ErrPaymentUpdateFailed
	}

	switch {
	case lost:
		telemetry.AddEvent(span, "status_change_lost",
			telemetry.SpanAttrPaymentStatus, result.Status.String(),
		)
		s.logger.Info("payment already changed by a concurrent update",
			zap.String("payment_id", paymentID.String()),
			zap.String("requested_status", to.String()),
			zap.String("current_status", result.Status.String()),
		)
	case !plan.NoOp:
		fields := []zap.Field{
			zap.String("payment_id", paymentID.String()),
			zap.String("order_id", result.OrderID.String()),
			zap.String("from_status", plan.From.String()),
			zap.String("to_status", plan.To.String()),
		}
		if provisioned != nil {
			fields = append(fields,
				zap.String("tracking_number", provisioned.TrackingNumber),
				zap.String("carrier", provisioned.Carrier),
			)
		}
		s.logger.Info("payment status changed", fields...)
	}

	return ToPaymentResponse(result), nil
}
