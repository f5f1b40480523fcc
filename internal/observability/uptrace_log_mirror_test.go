package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipUptraceLog("http_request", []any{"http_path", "/v1/football/matches"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipUptraceLog("provider request failed", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-http_request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"league", "premier_league", "attempt", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "league" || attrs[0].Value.AsString() != "premier_league" {
		t.Fatalf("unexpected league attribute")
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelSeverity(t *testing.T) {
	cases := []struct {
		level zapcore.Level
		want  otellog.Severity
	}{
		{zapcore.DebugLevel, otellog.SeverityDebug},
		{zapcore.InfoLevel, otellog.SeverityInfo},
		{zapcore.WarnLevel, otellog.SeverityWarn},
		{zapcore.ErrorLevel, otellog.SeverityError},
		{zapcore.PanicLevel, otellog.SeverityFatal},
	}
	for _, tc := range cases {
		if got := toOTelSeverity(tc.level); got != tc.want {
			t.Fatalf("toOTelSeverity(%s)=%v want=%v", tc.level, got, tc.want)
		}
	}
}

func TestToOTelLogValue_Scalars(t *testing.T) {
	if v := toOTelLogValue(errors.New("kickoff parse failed"), 0); v.AsString() != "kickoff parse failed" {
		t.Fatalf("unexpected error value: %v", v)
	}
	if v := toOTelLogValue(90*time.Minute, 0); v.AsString() != "1h30m0s" {
		t.Fatalf("unexpected duration value: %v", v)
	}
	if v := toOTelLogValue(uint64(7), 0); v.AsInt64() != 7 {
		t.Fatalf("unexpected uint value: %v", v)
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"count": 11,
		"live":  true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}
