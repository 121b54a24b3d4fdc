package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{ServiceName: "store"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(2).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestStartServiceSpan(t *testing.T) {
	rec := setupRecorder(t)

	t.Run("success sets ok status", func(t *testing.T) {
		ctx, span := StartServiceSpan(context.Background(), "stock_transfer", "create",
			attribute.String("transfer.reference", "TRF-1"))
		assert.NotEmpty(t, TraceID(ctx))
		EndSpan(span, nil)

		ended := rec.Ended()
		require.NotEmpty(t, ended)
		last := ended[len(ended)-1]
		assert.Equal(t, "stock_transfer.create", last.Name())
		assert.Equal(t, codes.Ok, last.Status().Code)
		assert.Equal(t, "TRF-1", attrMap(last)["transfer.reference"].AsString())
	})

	t.Run("error is recorded", func(t *testing.T) {
		_, span := StartServiceSpan(context.Background(), "pos", "checkout")
		EndSpan(span, errors.New("insufficient stock"))

		ended := rec.Ended()
		last := ended[len(ended)-1]
		assert.Equal(t, codes.Error, last.Status().Code)
		assert.Equal(t, "insufficient stock", last.Status().Description)
		require.NotEmpty(t, last.Events())
		assert.Equal(t, "exception", last.Events()[0].Name)
	})
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, RegisterDBTracing(db, DefaultDBTracingConfig(), zap.NewNop()))
		assert.Nil(t, db.Callback().Create().Get("store_timing:after_create"))
	})

	t.Run("enabled registers callbacks", func(t *testing.T) {
		db := setupTestDB(t)
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
		assert.NotNil(t, db.Callback().Create().Get("store_timing:after_create"))
		assert.NotNil(t, db.Callback().Raw().Get("store_timing:before_raw"))
	})
}

func TestTimingCallbacks_AnnotateSpan(t *testing.T) {
	rec := setupRecorder(t)
	db := setupTestDB(t)

	before := func(tx *gorm.DB) {
		tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
	}
	after := func(tx *gorm.DB) { annotateStatementSpan(tx, -1) }
	require.NoError(t, registerTimingCallbacks(db, before, after))

	ctx, span := otel.Tracer("test").Start(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0])
	assert.Equal(t, "traced_rows", attrs["db.sql.table"].AsString())
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.True(t, attrs["db.slow_query"].AsBool())
}

func TestAnnotateStatementSpan_NotRecording(t *testing.T) {
	db := setupTestDB(t)
	tx := db.WithContext(context.Background())
	tx.Statement.Table = "traced_rows"
	assert.NotPanics(t, func() { annotateStatementSpan(tx, time.Second) })
}
