package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PaymentStatusMessage is a payment gateway confirmation
type PaymentStatusMessage struct {
	MessageID        string     `json:"message_id"`
	PaymentID        uuid.UUID  `json:"payment_id"`
	Status           string     `json:"status"`
	Carrier          string     `json:"carrier"`
	PaymentDate      *time.Time `json:"payment_date"`
	ProcessByStaffID *uuid.UUID `json:"process_by_staff_id"`
}

// PaymentUpdater applies a payment status change
type PaymentUpdater interface {
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, in fulfillmentapp.PaymentUpdateInput) (*fulfillmentapp.PaymentResponse, error)
}

// ErrRejectedMessage marks a message that can never succeed; it is not retried
var ErrRejectedMessage = errors.New("payment status message rejected")

const idempotencyKeyPrefix = "payment-status:"

// NewConsumerGroup builds the sarama consumer group for payment confirmations
func NewConsumerGroup(cfg config.KafkaConfig) (sarama.ConsumerGroup, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	sc.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}
	return group, nil
}

// PaymentStatusConsumer feeds gateway confirmations into the payment
// transition handler. Each message is deduplicated on its message_id;
// a failed attempt releases the key so redelivery can retry it.
type PaymentStatusConsumer struct {
	group       sarama.ConsumerGroup
	topic       string
	updater     PaymentUpdater
	store       shared.IdempotencyStore
	ttl         time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger
	tracer      trace.Tracer
}

// ConsumerOption configures a PaymentStatusConsumer
type ConsumerOption func(*PaymentStatusConsumer)

// WithMaxAttempts sets how often a transient failure is retried before the
// message is skipped
func WithMaxAttempts(n int) ConsumerOption {
	return func(c *PaymentStatusConsumer) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the base delay between attempts
func WithRetryDelay(d time.Duration) ConsumerOption {
	return func(c *PaymentStatusConsumer) {
		c.retryDelay = d
	}
}

// WithDedupTTL sets how long processed message ids are remembered
func WithDedupTTL(ttl time.Duration) ConsumerOption {
	return func(c *PaymentStatusConsumer) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewPaymentStatusConsumer creates a new PaymentStatusConsumer. group may be
// nil when messages are handed in directly through HandleMessage.
func NewPaymentStatusConsumer(
	group sarama.ConsumerGroup,
	topic string,
	updater PaymentUpdater,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...ConsumerOption,
) *PaymentStatusConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &PaymentStatusConsumer{
		group:       group,
		topic:       topic,
		updater:     updater,
		store:       store,
		ttl:         shared.DefaultIdempotencyConfig().TTL,
		maxAttempts: 3,
		retryDelay:  200 * time.Millisecond,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled or the group is closed
func (c *PaymentStatusConsumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("kafka consumer group error", zap.Error(err))
		}
	}()

	c.logger.Info("payment status consumer started", zap.String("topic", c.topic))
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.logger.Error("kafka consume failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close leaves the consumer group
func (c *PaymentStatusConsumer) Close() error {
	if c.group == nil {
		return nil
	}
	return c.group.Close()
}

// Setup is run at the beginning of a new session
func (c *PaymentStatusConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session
func (c *PaymentStatusConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim processes one partition claim. Every message is marked once
// handled, including rejected ones and ones that ran out of attempts.
func (c *PaymentStatusConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c.consume(session.Context(), msg)
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (c *PaymentStatusConsumer) consume(ctx context.Context, msg *sarama.ConsumerMessage) {
	for attempt := 1; ; attempt++ {
		err := c.HandleMessage(ctx, msg)
		if err == nil {
			return
		}
		if errors.Is(err, ErrRejectedMessage) {
			c.logger.Warn("payment status message rejected",
				zap.String("topic", msg.Topic),
				zap.Int32("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return
		}
		if attempt >= c.maxAttempts {
			c.logger.Error("payment status message dropped after retries",
				zap.String("topic", msg.Topic),
				zap.Int32("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryDelay * time.Duration(attempt)):
		}
	}
}

// HandleMessage applies one confirmation. It returns nil for applied and
// duplicate messages, an error wrapping ErrRejectedMessage for messages that
// can never apply, and any other error for failures worth retrying.
func (c *PaymentStatusConsumer) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, consumerHeaderCarrier(msg.Headers))
	ctx, span := c.tracer.Start(ctx, "kafka.consume "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", int(msg.Partition)),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	var m PaymentStatusMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed message")
		return fmt.Errorf("%w: malformed payload: %v", ErrRejectedMessage, err)
	}
	if m.PaymentID == uuid.Nil {
		span.SetStatus(codes.Error, "missing payment id")
		return fmt.Errorf("%w: payment_id is required", ErrRejectedMessage)
	}
	span.SetAttributes(
		attribute.String("payment.id", m.PaymentID.String()),
		attribute.String("payment.status", m.Status),
	)

	key := c.dedupKey(msg, m)
	fresh, err := c.store.MarkProcessed(ctx, key, c.ttl)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !fresh {
		c.logger.Debug("duplicate payment status message skipped",
			zap.String("key", key),
			zap.String("payment_id", m.PaymentID.String()),
		)
		return nil
	}

	_, err = c.updater.UpdatePayment(ctx, m.PaymentID, fulfillmentapp.PaymentUpdateInput{
		Status:           m.Status,
		PaymentDate:      m.PaymentDate,
		Carrier:          m.Carrier,
		ProcessByStaffID: m.ProcessByStaffID,
	})
	if err == nil {
		c.logger.Info("payment status message applied",
			zap.String("payment_id", m.PaymentID.String()),
			zap.String("status", m.Status),
		)
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "payment update failed")
	if isPermanent(err) {
		return fmt.Errorf("%w: %v", ErrRejectedMessage, err)
	}
	if releaseErr := c.store.Release(ctx, key); releaseErr != nil {
		c.logger.Warn("failed to release idempotency key",
			zap.String("key", key),
			zap.Error(releaseErr),
		)
	}
	return err
}

func (c *PaymentStatusConsumer) dedupKey(msg *sarama.ConsumerMessage, m PaymentStatusMessage) string {
	if m.MessageID != "" {
		return idempotencyKeyPrefix + m.MessageID
	}
	return fmt.Sprintf("%s%s/%d/%d", idempotencyKeyPrefix, msg.Topic, msg.Partition, msg.Offset)
}

// isPermanent reports whether retrying the update cannot change its outcome
func isPermanent(err error) bool {
	return errors.Is(err, fulfillment.ErrPaymentNotFound) ||
		errors.Is(err, fulfillment.ErrInvalidPaymentTransition) ||
		errors.Is(err, shared.ErrInvalidInput)
}

var _ sarama.ConsumerGroupHandler = (*PaymentStatusConsumer)(nil)
