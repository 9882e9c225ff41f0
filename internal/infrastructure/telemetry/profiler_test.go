package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresServerAndApplication(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "fulfillment"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}

func TestProfilerConfig_ProfileTypes(t *testing.T) {
	assert.Empty(t, ProfilerConfig{}.profileTypes())

	cfg := ProfilerConfig{ProfileCPU: true, ProfileInuseSpace: true, ProfileGoroutines: true}
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}, cfg.profileTypes())
}

func TestWithProfilingLabels(t *testing.T) {
	var route, orderID string
	var routeOK, orderOK bool

	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelRoute: "/api/v1/orders",
		"order_id":          "6f1c",
	}, func(ctx context.Context) {
		route, routeOK = pprof.Label(ctx, ProfilingLabelRoute)
		orderID, orderOK = pprof.Label(ctx, "order_id")
	})

	assert.True(t, routeOK)
	assert.Equal(t, "/api/v1/orders", route)
	assert.False(t, orderOK, "identifiers are never profile labels")
	assert.Empty(t, orderID)
}

func TestWithProfilingLabels_NoLabelsStillRuns(t *testing.T) {
	ran := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Route":           "/api/v1/payments/:id",
		"payment-method":  "COD",
		"tracking_number": "JX-1",
		"empty":           "",
		"controller":      strings.Repeat("x", MaxLabelValueLength+10),
	})

	assert.Equal(t, []string{
		"controller", strings.Repeat("x", MaxLabelValueLength),
		"payment_method", "COD",
		"route", "/api/v1/payments/:id",
	}, pairs)
}

func TestSanitizeLabelKey(t *testing.T) {
	assert.Equal(t, "payment_method", sanitizeLabelKey("Payment Method"))
	assert.Equal(t, "ship_by", sanitizeLabelKey("ship-by!"))
	assert.Equal(t, "", sanitizeLabelKey("***"))
}

func TestHTTPRequestLabels(t *testing.T) {
	assert.Equal(t, map[string]string{
		ProfilingLabelController: "payments",
		ProfilingLabelRoute:      "/api/v1/payments/:id",
		ProfilingLabelMethod:     "PATCH",
	}, HTTPRequestLabels("payments", "/api/v1/payments/:id", "PATCH"))

	assert.Empty(t, HTTPRequestLabels("", "", ""))
}
