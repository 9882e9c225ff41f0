package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName scopes every span the fulfillment services open.
const TracerName = "github.com/shopcore/fulfillment"

// Span attribute keys for fulfillment operations.
const (
	SpanAttrOrderID        = "fulfillment.order_id"
	SpanAttrBuyerID        = "fulfillment.buyer_id"
	SpanAttrItemCount      = "fulfillment.item_count"
	SpanAttrTotalAmount    = "fulfillment.total_amount"
	SpanAttrPaymentID      = "fulfillment.payment_id"
	SpanAttrPaymentMethod  = "fulfillment.payment_method"
	SpanAttrPaymentStatus  = "fulfillment.payment_status"
	SpanAttrTargetStatus   = "fulfillment.target_status"
	SpanAttrShipmentID     = "fulfillment.shipment_id"
	SpanAttrTrackingNumber = "fulfillment.tracking_number"
	SpanAttrCarrier        = "fulfillment.carrier"
)

// StartServiceSpan opens an internal span named
// "fulfillment.<component>.<operation>", for example
// "fulfillment.payment.update". The caller ends it.
func StartServiceSpan(ctx context.Context, component, operation string, keyValues ...any) (context.Context, trace.Span) {
	name := fmt.Sprintf("fulfillment.%s.%s", component, operation)
	ctx, span := otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal))
	SetAttributes(span, keyValues...)
	return ctx, span
}

// SetAttributes sets alternating key/value pairs on span. Pairs whose key is
// not a string are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil || len(keyValues) < 2 {
		return
	}
	span.SetAttributes(toAttributes(keyValues)...)
}

// RecordError attaches err to span and marks it failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent stamps a named event with key/value pairs onto span.
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(toAttributes(keyValues)...))
}

func toAttributes(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

// toAttribute covers the value types the services pass; uuid.UUID and
// decimal.Decimal go through fmt.Stringer.
func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
