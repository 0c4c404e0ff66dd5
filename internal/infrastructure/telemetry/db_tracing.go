// Package telemetry provides OpenTelemetry integration for distributed tracing.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls span creation for ledger database queries.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in spans; never enable outside dev
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig keeps query variables out of spans. Budget and
// disbursement amounts pass through as bind parameters, so full SQL in
// traces would leak them to the collector.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin layers slow-query detection on top of otelgorm spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm attaches the otelgorm plugin to the GORM instance and
// adds before/after callbacks that time each statement.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	// Timing callbacks must be registered ahead of the plugin: gorm runs
	// same-anchor callbacks in registration order, and the annotations
	// have to land before otelgorm ends its span.
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerTimingCallbacks hooks every GORM operation kind. The before
// callback stamps a start time into the statement context; the after
// callback turns it into span attributes.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	return errors.Join(
		db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", before),
		db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", before),
		db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", before),
		db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", before),
		db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", before),
		db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", before),
		db.Callback().Create().After("gorm:create").Register("otel_timing:after_create", p.annotateSpan),
		db.Callback().Query().After("gorm:query").Register("otel_timing:after_query", p.annotateSpan),
		db.Callback().Update().After("gorm:update").Register("otel_timing:after_update", p.annotateSpan),
		db.Callback().Delete().After("gorm:delete").Register("otel_timing:after_delete", p.annotateSpan),
		db.Callback().Row().After("gorm:row").Register("otel_timing:after_row", p.annotateSpan),
		db.Callback().Raw().After("gorm:raw").Register("otel_timing:after_raw", p.annotateSpan),
	)
}

// annotateSpan runs after each statement and enriches the active span
// with row counts, the table touched, errors, and slow-query events.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// Catalog lookups miss all the time; only real failures mark the span.
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"
