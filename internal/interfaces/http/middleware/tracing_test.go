package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func newTracedRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}), SpanEnricher())
	router.GET("/api/v1/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.PATCH("/api/v1/payments/:id", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	return router
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_TagsOrderSpan(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ord-1", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	v, ok := spanAttr(span, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-7", v.AsString())

	v, ok = spanAttr(span, "order.id")
	require.True(t, ok)
	assert.Equal(t, "ord-1", v.AsString())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracing_MarksErrors(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		message string
	}{
		{"unprocessable payment transition", http.MethodPatch, "/api/v1/payments/pay-1", "Unprocessable Entity"},
		// otelgin rewrites the status of 5xx spans itself, so only the code is checked
		{"server error", http.MethodGet, "/boom", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := setupTestTracer(t)
			router := newTracedRouter()

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, spans[0].Status().Description)
			}
		})
	}
}

func TestTracing_TruncatesLongRequestID(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter()

	long := make([]byte, MaxRequestIDLength+50)
	for i := range long {
		long[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ord-2", nil)
	req.Header.Set(HeaderRequestID, string(long))
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Len(t, v.AsString(), MaxRequestIDLength)
}
