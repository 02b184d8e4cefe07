package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextVariantsAttachTraceIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "ingestion pass finished", "league_api_id", int64(39))
	logger.Info("no context")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	got := entries[0].ContextMap()
	if got["trace_id"] != traceID.String() || got["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %+v", got)
	}
	if got["league_api_id"] != int64(39) {
		t.Fatalf("unexpected league_api_id: %+v", got["league_api_id"])
	}
	if _, ok := entries[1].ContextMap()["trace_id"]; ok {
		t.Fatalf("did not expect trace_id without a span")
	}
}

func TestFieldsConversion(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Warn("fetch failed", "error", errors.New("boom"), "elapsed", 2*time.Second, 42, "odd", "dangling")

	ctxMap := logs.All()[0].ContextMap()
	if ctxMap["error"] != "boom" {
		t.Fatalf("unexpected error field: %+v", ctxMap["error"])
	}
	if ctxMap["elapsed"] != 2*time.Second {
		t.Fatalf("unexpected elapsed field: %+v", ctxMap["elapsed"])
	}
	if ctxMap["arg"] != "odd" {
		t.Fatalf("expected non-string key to fall back to arg: %+v", ctxMap)
	}
	if v, ok := ctxMap["dangling"]; !ok || v != nil {
		t.Fatalf("expected dangling key logged as null: %+v", ctxMap)
	}
}

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf, Name: "scheduler"})

	logger.Info("dropped")
	logger.Warn("lease store unavailable", "job", "ingest-live-fixtures")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info entry should be filtered at warn level: %s", out)
	}
	for _, want := range []string{`"level":"WARN"`, `"logger":"scheduler"`, `"job":"ingest-live-fixtures"`, `"caller":"logging/logger_test.go`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
	if logger.Enabled(LevelDebug) || !logger.Enabled(LevelError) {
		t.Fatalf("unexpected Enabled result")
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("ignored")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}
