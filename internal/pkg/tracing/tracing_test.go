package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/mediaio/internal/pkg/logging"
)

// Тесты меняют глобальный TracerProvider: t.Parallel() не использовать.

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	shutdown, err := NewTracerProvider(DefaultConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	_, err := NewTracerProvider(cfg, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrTracingEndpointRequired)
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = "http://localhost:4318"
	cfg.Insecure = true

	shutdown, err := NewTracerProvider(cfg, logging.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}

func TestConfig_Validate(t *testing.T) {
	base := DefaultConfig()
	base.Enabled = true
	base.Endpoint = "http://jaeger:4318"

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"bad endpoint", func(c *Config) { c.Endpoint = "jaeger" }, ErrTracingEndpointInvalidFormat},
		{"no service", func(c *Config) { c.ServiceName = "" }, ErrTracingServiceNameRequired},
		{"no timeout", func(c *Config) { c.Timeout = 0 }, ErrTracingTimeoutInvalid},
		{"bad rate", func(c *Config) { c.SamplingRate = 1.5 }, ErrTracingSamplingRateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateTraceID(t *testing.T) {
	a, b := GenerateTraceID(), GenerateTraceID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestTraceIDContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceIDFromContext(ctx))
}

func TestContextWithOTelTraceID(t *testing.T) {
	id := GenerateTraceID()
	ctx := ContextWithOTelTraceID(context.Background(), id)
	assert.Equal(t, id, trace.SpanContextFromContext(ctx).TraceID().String())

	same := ContextWithOTelTraceID(context.Background(), "not-hex")
	assert.False(t, trace.SpanContextFromContext(same).IsValid())
}

func TestStartEndSpan(t *testing.T) {
	rec := installRecorder(t)

	_, span := StartSpan(context.Background(), "fileio.slurp", attribute.String("path", "/tmp/x"))
	EndSpan(span, errors.New("boom"))
	_, ok := StartSpan(context.Background(), "diskmon.scan")
	EndSpan(ok, nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "fileio.slurp", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("path", "/tmp/x"))
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(0.5).Description(), "ParentBased")
}
