package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds the request ID copied onto spans.
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "fulfillment",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin server-span middleware.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher tags the server span with the request ID and, on
// /orders/:id and /payments/:id routes, the resource ID. Responses with
// status >= 400 mark the span as an error. Register it after Tracing.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := GetRequestID(c); requestID != "" {
				if len(requestID) > MaxRequestIDLength {
					requestID = requestID[:MaxRequestIDLength]
				}
				span.SetAttributes(attribute.String("request_id", requestID))
			}
			if id := c.Param("id"); id != "" {
				span.SetAttributes(attribute.String(resourceAttribute(c.FullPath()), id))
			}
		}

		c.Next()

		if span.IsRecording() {
			markSpanStatus(span, c.Writer.Status())
		}
	}
}

func resourceAttribute(route string) string {
	switch route {
	case "/api/v1/orders/:id":
		return "order.id"
	case "/api/v1/payments/:id":
		return "payment.id"
	default:
		return "resource.id"
	}
}

func markSpanStatus(span trace.Span, statusCode int) {
	if statusCode < http.StatusBadRequest {
		return
	}
	message := "Client Error"
	switch {
	case statusCode >= http.StatusInternalServerError:
		message = "Internal Server Error"
	case statusCode == http.StatusNotFound:
		message = "Not Found"
	case statusCode == http.StatusUnprocessableEntity:
		message = "Unprocessable Entity"
	}
	span.SetStatus(codes.Error, message)
	span.SetAttributes(attribute.Int("http.status_code", statusCode))
}
