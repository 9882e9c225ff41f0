package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// otelgormAfterPrefix names the callbacks that end otelgorm's spans.
const otelgormAfterPrefix = "otel:after:"

// DBTracingConfig configures statement spans.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool // dev only; keeps bound values in db.statement
	SlowQueryThresh  time.Duration
	DBSystem         string
	WithoutVariables bool
}

// DBTracingPlugin installs otelgorm and annotates its statement spans with
// the ledger table, updates that matched nothing and slow statements.
// otelgorm itself records rows affected and errors.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates the plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm registers otelgorm and the annotation callbacks on db.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if p.config.WithoutVariables || !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerTimedCallbacks(db, "db_tracing", otelgormAfterPrefix, p.annotate); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

// annotate decorates the statement span before otelgorm ends it.
func (p *DBTracingPlugin) annotate(tx *gorm.DB, operation string, elapsed time.Duration) {
	if tx.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}

	table := statementTable(tx)
	span.SetAttributes(
		attribute.String("db.sql.table", table),
		attribute.String("db.operation", operation),
	)

	// A guarded UPDATE that matched nothing is how a lost payment CAS shows up.
	if operation == "UPDATE" && tx.Error == nil && tx.Statement.RowsAffected == 0 {
		span.AddEvent("update_matched_no_rows")
	}

	if elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
