package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/shopcore/fulfillment/internal/infrastructure/messaging"

// Record header names set on every forwarded event
const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

// NewSyncProducer builds a sarama producer that waits for all in-sync replicas
func NewSyncProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// KafkaEventPublisher forwards relayed domain events to a Kafka topic.
// It subscribes to every event type; messages are keyed by aggregate ID so
// the events of one order stay ordered within a partition.
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewKafkaEventPublisher creates a new KafkaEventPublisher
func NewKafkaEventPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// EventTypes returns nil: every event is forwarded
func (p *KafkaEventPublisher) EventTypes() []string {
	return nil
}

// Handle sends the event as JSON and returns once the broker acknowledged it
func (p *KafkaEventPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	ctx, span := p.tracer.Start(ctx, "kafka.publish "+p.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("event.type", event.EventType()),
			attribute.String("event.id", event.EventID().String()),
		),
	)
	defer span.End()

	value, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal event %s: %w", event.EventID(), err)
	}

	headers := producerHeaderCarrier{
		{Key: []byte(HeaderEventID), Value: []byte(event.EventID().String())},
		{Key: []byte(HeaderEventType), Value: []byte(event.EventType())},
	}
	otel.GetTextMapPropagator().Inject(ctx, &headers)

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(event.AggregateID().String()),
		Value:   sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader(headers),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("failed to send event %s: %w", event.EventID(), err)
	}

	p.logger.Debug("event forwarded to kafka",
		zap.String("topic", p.topic),
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

var _ shared.EventHandler = (*KafkaEventPublisher)(nil)
