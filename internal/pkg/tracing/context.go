// Package tracing связывает операции mediaio с trace ID и span-ами OpenTelemetry.
//
// Trace ID: 32 hex-символа (16 байт), совместим с W3C Trace Context:
//
//	ctx = tracing.WithTraceID(ctx, tracing.GenerateTraceID())
//	logger.With("trace_id", tracing.TraceIDFromContext(ctx))
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName: имя инструментирующей библиотеки для span-ов mediaio.
const TracerName = "github.com/Kargones/mediaio"

type traceIDKey struct{}

var fallbackCounter atomic.Uint64

// GenerateTraceID возвращает случайный trace ID. Если crypto/rand
// недоступен, ID строится из времени и счётчика.
func GenerateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%016x%016x", uint64(time.Now().UnixNano()), fallbackCounter.Add(1))
	}
	return hex.EncodeToString(b)
}

// WithTraceID кладёт trace ID в ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext возвращает trace ID или "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// ContextWithOTelTraceID делает traceIDHex remote parent-ом для span-ов из ctx,
// чтобы trace_id в логах совпадал с trace ID в OTel. Невалидный ID игнорируется.
func ContextWithOTelTraceID(ctx context.Context, traceIDHex string) context.Context {
	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil {
		return ctx
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

// StartSpan открывает span через глобальный TracerProvider.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan фиксирует ошибку (если есть) и закрывает span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
