package telemetry

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig configures statement and pool metrics.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DefaultDBMetricsConfig returns the production defaults.
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
		PoolStatsInterval:  15 * time.Second,
	}
}

// DBMetrics records per-table statement metrics for the ledger and samples
// the connection pool.
type DBMetrics struct {
	queryTotal      *Counter
	queryDuration   *Histogram
	slowQueryTotal  *Counter
	noRowUpdates    *Counter
	poolConnections *Gauge
	poolMax         *Gauge

	config DBMetricsConfig
	logger *zap.Logger

	mu       sync.RWMutex
	sqlDB    *sql.DB
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBMetrics creates the instruments on meter.
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultDBMetricsConfig()
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaults.SlowQueryThreshold
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = defaults.PoolStatsInterval
	}

	m := &DBMetrics{config: cfg, logger: logger, stopCh: make(chan struct{})}

	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total",
		"Database statements by operation and table", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency by operation and table",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total",
		"Statements slower than the configured threshold", "{query}"); err != nil {
		return nil, err
	}
	if m.noRowUpdates, err = NewCounter(meter, "db_update_no_rows_total",
		"Guarded updates that matched no row, such as a payment status change lost to a concurrent writer", "{query}"); err != nil {
		return nil, err
	}
	if m.poolConnections, err = NewGauge(meter, "db_pool_connections",
		"Pool connections by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolMax, err = NewGauge(meter, "db_pool_connections_max",
		"Configured maximum open connections", "{connection}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordQuery records one statement. A failed statement reports rowsAffected
// as -1 so it is not counted as a no-row update.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, rowsAffected int64, duration time.Duration) {
	if operation == "" {
		operation = "OTHER"
	}
	if table == "" {
		table = "unknown"
	}
	attrs := []attribute.KeyValue{AttrDBOperation.String(operation), AttrDBTable.String(table)}

	m.queryTotal.Inc(ctx, attrs...)
	m.queryDuration.RecordDuration(ctx, duration, attrs...)
	if duration > m.config.SlowQueryThreshold {
		m.slowQueryTotal.Inc(ctx, attrs...)
	}
	if operation == "UPDATE" && rowsAffected == 0 {
		m.noRowUpdates.Inc(ctx, AttrDBTable.String(table))
	}
}

// SetSQLDB sets the pool sampled by StartPoolStatsCollection.
func (m *DBMetrics) SetSQLDB(sqlDB *sql.DB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sqlDB = sqlDB
}

// StartPoolStatsCollection samples pool stats until Stop or ctx is done.
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		m.logger.Warn("Pool stats collection not started: no sql.DB set")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.PoolStatsInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx, sqlDB)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx, sqlDB)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context, sqlDB *sql.DB) {
	stats := sqlDB.Stats()
	m.poolMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.poolConnections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConnections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConnections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool sampling. Idempotent.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

// DBMetricsPlugin is the gorm.Plugin feeding DBMetrics.
type DBMetricsPlugin struct {
	metrics *DBMetrics
	logger  *zap.Logger
}

// NewDBMetricsPlugin wraps metrics as a gorm plugin.
func NewDBMetricsPlugin(metrics *DBMetrics, logger *zap.Logger) *DBMetricsPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBMetricsPlugin{metrics: metrics, logger: logger}
}

// Name implements gorm.Plugin.
func (p *DBMetricsPlugin) Name() string { return "db_metrics" }

// Initialize implements gorm.Plugin.
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	if p.metrics == nil || !p.metrics.config.Enabled {
		return nil
	}
	err := registerTimedCallbacks(db, "db_metrics", "", func(tx *gorm.DB, operation string, elapsed time.Duration) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		rows := tx.Statement.RowsAffected
		if tx.Error != nil {
			rows = -1
		}
		p.metrics.RecordQuery(ctx, operation, statementTable(tx), rows, elapsed)
	})
	if err != nil {
		return err
	}
	p.logger.Info("Database metrics enabled")
	return nil
}
