package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderCreationService turns a checkout into a persisted order graph
type OrderCreationService struct {
	ledger      fulfillment.Ledger
	provisioner *ShipmentProvisioner
	generator   fulfillment.IdentifierGenerator
	shippingFee decimal.Decimal
	logger      *zap.Logger
	now         func() time.Time
}

// OrderCreationOption configures an OrderCreationService
type OrderCreationOption func(*OrderCreationService)

// WithShippingFee sets the flat shipping fee charged per order
func WithShippingFee(fee decimal.Decimal) OrderCreationOption {
	return func(s *OrderCreationService) {
		s.shippingFee = fee
	}
}

// WithOrderClock overrides the clock used for order dates
func WithOrderClock(now func() time.Time) OrderCreationOption {
	return func(s *OrderCreationService) {
		s.now = now
	}
}

// NewOrderCreationService creates a new OrderCreationService
func NewOrderCreationService(
	ledger fulfillment.Ledger,
	provisioner *ShipmentProvisioner,
	generator fulfillment.IdentifierGenerator,
	logger *zap.Logger,
	opts ...OrderCreationOption,
) *OrderCreationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OrderCreationService{
		ledger:      ledger,
		provisioner: provisioner,
		generator:   generator,
		shippingFee: decimal.Zero,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the checkout, then persists address, order, items,
// payment and (for cash on delivery) the shipment in one ledger transaction.
// Validation errors are returned as is. Any failure inside the transaction
// is logged and reported as ErrOrderCreationFailed.
func (s *OrderCreationService) PlaceOrder(ctx context.Context, in CheckoutInput) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		telemetry.SpanAttrBuyerID, in.BuyerID,
		telemetry.SpanAttrPaymentMethod, in.PaymentMethod,
		telemetry.SpanAttrItemCount, len(in.Items),
	)
	defer span.End()

	method, err := fulfillment.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	address, err := fulfillment.NewAddress(in.BuyerID, in.addressFields(), now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	order, err := fulfillment.NewOrder(in.BuyerID, address, in.lineItems(), s.shippingFee, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrTotalAmount, order.TotalAmount,
	)

	var placed *fulfillment.Order
	err = s.ledger.Execute(ctx, func(tx fulfillment.LedgerTx) error {
		if err := tx.Addresses().Create(ctx, address); err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i := range order.Items {
			if err := tx.OrderItems().Create(ctx, &order.Items[i]); err != nil {
				return fmt.Errorf("create order item %d: %w", order.Items[i].Position, err)
			}
		}

		payment, err := fulfillment.NewPayment(order, method, s.generator.TransactionID(order.ID, order.UserID), now)
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		order.MarkPlaced(payment)
		if err := tx.Events().Record(ctx, order.GetDomainEvents()...); err != nil {
			return fmt.Errorf("record order events: %w", err)
		}

		if method.ShipsOnCheckout() {
			if _, err := s.provisioner.Provision(ctx, tx, ProvisionRequest{
				OrderID: order.ID,
				BuyerID: order.UserID,
				Carrier: in.Carrier,
			}); err != nil {
				return fmt.Errorf("provision shipment: %w", err)
			}
		}

		placed, err = tx.Orders().FindGraph(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("reload order: %w", err)
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("order creation failed",
			zap.String("buyer_id", in.BuyerID.String()),
			zap.String("order_id", order.ID.String()),
			zap.String("payment_method", method.String()),
			zap.Error(err),
		)
		return nil, fulfillment.ErrOrderCreationFailed
	}
	order.ClearDomainEvents()

	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("buyer_id", placed.UserID.String()),
		zap.String("payment_method", method.String()),
		zap.String("total_amount", placed.TotalAmount.String()),
		zap.Int("shipments", len(placed.Shipments)),
	)
	return ToOrderResponse(placed), nil
}
