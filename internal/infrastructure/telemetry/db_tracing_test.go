package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedLine struct {
	ID     uint   `gorm:"primaryKey"`
	Kode   string `gorm:"size:32"`
	Uraian string `gorm:"size:200"`
}

func (tracedLine) TableName() string { return "budget_lines" }

func setupTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedLine{}))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	// otelgorm picks up the global provider
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	plugin := NewDBTracingPlugin(cfg, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	return db, recorder
}

func tracedConfig() DBTracingConfig {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	return cfg
}

func querySpans(recorder *tracetest.SpanRecorder) []sdktrace.ReadOnlySpan {
	return recorder.Ended()
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "bind parameters stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestRegisterOtelGorm(t *testing.T) {
	t.Run("disabled config registers nothing", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)

		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.Nil(t, db.Callback().Query().Get("otel_timing:before_query"))
	})

	t.Run("each statement produces a span", func(t *testing.T) {
		db, recorder := setupTracedDB(t, tracedConfig())

		ctx := context.Background()
		require.NoError(t, db.WithContext(ctx).Create(&tracedLine{Kode: "521211", Uraian: "Belanja bahan"}).Error)

		var lines []tracedLine
		require.NoError(t, db.WithContext(ctx).Find(&lines).Error)

		spans := querySpans(recorder)
		require.NotEmpty(t, spans, "otelgorm emits a span per statement")
	})

	t.Run("span carries table and row attributes", func(t *testing.T) {
		db, recorder := setupTracedDB(t, tracedConfig())

		require.NoError(t, db.Create(&tracedLine{Kode: "521211", Uraian: "Belanja bahan"}).Error)

		spans := querySpans(recorder)
		require.NotEmpty(t, spans)

		attrs := map[string]any{}
		for _, span := range spans {
			for _, attr := range span.Attributes() {
				attrs[string(attr.Key)] = attr.Value.AsInterface()
			}
		}
		assert.Equal(t, "budget_lines", attrs["db.sql.table"])
		assert.Equal(t, int64(1), attrs["db.rows_affected"])
	})

	t.Run("slow statements get a warning event", func(t *testing.T) {
		cfg := tracedConfig()
		cfg.SlowQueryThresh = time.Nanosecond
		db, recorder := setupTracedDB(t, cfg)

		require.NoError(t, db.Create(&tracedLine{Kode: "521211", Uraian: "Belanja bahan"}).Error)

		found := false
		for _, span := range querySpans(recorder) {
			for _, event := range span.Events() {
				if event.Name == "slow_query_warning" {
					found = true
				}
			}
		}
		assert.True(t, found, "crossing the threshold records slow_query_warning")
	})

	t.Run("record-not-found does not mark the span failed", func(t *testing.T) {
		db, recorder := setupTracedDB(t, tracedConfig())

		var line tracedLine
		err := db.First(&line, "kode = ?", "missing").Error
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)

		for _, span := range querySpans(recorder) {
			assert.NotEqual(t, codes.Error, span.Status().Code,
				"lookup misses are routine for the catalog")
		}
	})

	t.Run("real statement errors mark the span", func(t *testing.T) {
		db, recorder := setupTracedDB(t, tracedConfig())

		err := db.Exec("SELECT * FROM no_such_table").Error
		require.Error(t, err)

		failed := false
		for _, span := range querySpans(recorder) {
			if span.Status().Code == codes.Error {
				failed = true
			}
		}
		assert.True(t, failed)
	})
}
