package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newTestDBMetrics(t *testing.T, cfg DBMetricsConfig) (*DBMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewDBMetrics(mp.Meter("test"), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(m.Stop)
	return m, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

// counterValue sums the data points of an int64 counter that carry every attr.
func counterValue(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		match := true
		for _, attr := range attrs {
			if v, ok := dp.Attributes.Value(attr.Key); !ok || v != attr.Value {
				match = false
				break
			}
		}
		if match {
			total += dp.Value
		}
	}
	return total
}

func TestDBMetrics_RecordQuery_LabelsByOperationAndTable(t *testing.T) {
	m, reader := newTestDBMetrics(t, DBMetricsConfig{Enabled: true, SlowQueryThreshold: 100 * time.Millisecond})
	ctx := context.Background()

	m.RecordQuery(ctx, "INSERT", "orders", 1, 2*time.Millisecond)
	m.RecordQuery(ctx, "INSERT", "order_items", 3, 2*time.Millisecond)
	m.RecordQuery(ctx, "UPDATE", "payments", 1, 300*time.Millisecond)
	m.RecordQuery(ctx, "", "", 0, time.Millisecond)

	got := collectMetrics(t, reader)

	total := got["db_query_total"]
	assert.Equal(t, int64(2), counterValue(t, total, AttrDBOperation.String("INSERT")))
	assert.Equal(t, int64(1), counterValue(t, total,
		AttrDBOperation.String("INSERT"), AttrDBTable.String("order_items")))
	assert.Equal(t, int64(1), counterValue(t, total,
		AttrDBOperation.String("OTHER"), AttrDBTable.String("unknown")))

	slow := got["db_slow_query_total"]
	assert.Equal(t, int64(1), counterValue(t, slow, AttrDBTable.String("payments")))

	hist, ok := got["db_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 4)
	assert.Equal(t, DBDurationBuckets, hist.DataPoints[0].Bounds)
}

func TestDBMetrics_CountsUpdatesMatchingNoRows(t *testing.T) {
	m, reader := newTestDBMetrics(t, DefaultDBMetricsConfig())
	ctx := context.Background()

	m.RecordQuery(ctx, "UPDATE", "payments", 0, time.Millisecond)
	m.RecordQuery(ctx, "UPDATE", "payments", 1, time.Millisecond)
	m.RecordQuery(ctx, "UPDATE", "payments", -1, time.Millisecond)
	m.RecordQuery(ctx, "SELECT", "payments", 0, time.Millisecond)

	got := collectMetrics(t, reader)["db_update_no_rows_total"]
	assert.Equal(t, int64(1), counterValue(t, got, AttrDBTable.String("payments")))
}

func TestDBMetricsPlugin_RecordsLedgerStatements(t *testing.T) {
	m, reader := newTestDBMetrics(t, DBMetricsConfig{Enabled: true})
	db := openLedgerDB(t)
	require.NoError(t, db.Use(NewDBMetricsPlugin(m, zap.NewNop())))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&ledgerPayment{ID: 7, Status: "PENDING"}).Error)

	// compare-and-set that loses: the row is no longer PAID
	res := db.WithContext(ctx).Model(&ledgerPayment{}).
		Where("id = ? AND status = ?", 7, "PAID").
		Update("status", "REFUNDED")
	require.NoError(t, res.Error)

	var count int64
	require.NoError(t, db.WithContext(ctx).Raw("SELECT COUNT(*) FROM payments").Scan(&count).Error)

	got := collectMetrics(t, reader)
	total := got["db_query_total"]
	assert.Equal(t, int64(1), counterValue(t, total,
		AttrDBOperation.String("INSERT"), AttrDBTable.String("payments")))
	assert.Equal(t, int64(1), counterValue(t, total,
		AttrDBOperation.String("UPDATE"), AttrDBTable.String("payments")))
	assert.Equal(t, int64(1), counterValue(t, total, AttrDBOperation.String("SELECT")))

	assert.Equal(t, int64(1), counterValue(t, got["db_update_no_rows_total"], AttrDBTable.String("payments")))
}

func TestDBMetricsPlugin_DisabledRegistersNothing(t *testing.T) {
	m, _ := newTestDBMetrics(t, DBMetricsConfig{Enabled: false})
	db := openLedgerDB(t)

	require.NoError(t, db.Use(NewDBMetricsPlugin(m, nil)))
	assert.Nil(t, db.Callback().Create().Get("db_metrics:after_create"))
}

func TestDBMetrics_PoolStats(t *testing.T) {
	m, reader := newTestDBMetrics(t, DBMetricsConfig{Enabled: true, PoolStatsInterval: time.Hour})
	sqlDB, err := openLedgerDB(t).DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(1)

	m.SetSQLDB(sqlDB)
	m.StartPoolStatsCollection(context.Background())

	assert.Eventually(t, func() bool {
		_, ok := collectMetrics(t, reader)["db_pool_connections_max"]
		return ok
	}, time.Second, 10*time.Millisecond)

	gauge, ok := collectMetrics(t, reader)["db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(4), gauge.DataPoints[0].Value)

	m.Stop()
	m.Stop()
}

func TestDBMetrics_PoolStatsWithoutSQLDB(t *testing.T) {
	m, reader := newTestDBMetrics(t, DefaultDBMetricsConfig())

	m.StartPoolStatsCollection(context.Background())

	_, ok := collectMetrics(t, reader)["db_pool_connections"]
	assert.False(t, ok)
}

func TestDetectOperationType(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM orders", "SELECT"},
		{"  insert into shipments VALUES (?)", "INSERT"},
		{"UPDATE payments SET status = ? WHERE id = ? AND status = ?", "UPDATE"},
		{"delete from outbox_events", "DELETE"},
		{"WITH pending AS (SELECT 1) SELECT * FROM pending", "SELECT"},
		{"PRAGMA foreign_keys = ON", "OTHER"},
		{"", "OTHER"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, detectOperationType(tt.sql))
		})
	}
}
