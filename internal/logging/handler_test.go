package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestPretty(buf *bytes.Buffer, level slog.Level) slog.Handler {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return newPrettyHandler(buf, lvl, false)
}

func TestPrettyHandlerHeader(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestPretty(&buf, slog.LevelInfo))
	logger = NewComponentLogger(logger, "workflow")

	logger.Info("transition committed", String(FieldItemID, "a-1"), String("to", "review"), String("reason", "ready for edit"))

	line := buf.String()
	for _, want := range []string{"INFO [workflow] Article a-1", "transition committed", "to=review", `reason="ready for edit"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "item_id=") {
		t.Fatalf("subject fields should not repeat as key/value pairs: %q", line)
	}
}

func TestPrettyHandlerFiltersLevelAndDedupes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestPretty(&buf, slog.LevelWarn)).With(String("status", "draft"))

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	logger.Warn("visible", String("status", "review"))
	if got := strings.Count(buf.String(), "status="); got != 1 {
		t.Fatalf("expected one status field, got %d in %q", got, buf.String())
	}
	if !strings.Contains(buf.String(), "status=review") {
		t.Fatalf("expected latest status value, got %q", buf.String())
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTestPretty(&buf, slog.LevelInfo)).WithGroup("reconcile")
	logger.Info("run finished", Int("published", 2))
	if !strings.Contains(buf.String(), "reconcile.published=2") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestTeeHandlerFiltersNil(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsEachLevel(t *testing.T) {
	var infoBuf, warnBuf bytes.Buffer
	h := TeeHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should not be enabled")
	}
	logger := slog.New(h).With(String(FieldComponent, "reconciler"))
	logger.Info("tick")
	logger.Warn("slow")

	if !strings.Contains(infoBuf.String(), "tick") || !strings.Contains(infoBuf.String(), "slow") {
		t.Fatalf("info handler missing records: %q", infoBuf.String())
	}
	if strings.Contains(warnBuf.String(), "tick") || !strings.Contains(warnBuf.String(), "slow") {
		t.Fatalf("warn handler got wrong records: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), `"component":"reconciler"`) {
		t.Fatalf("attrs not propagated: %q", warnBuf.String())
	}
}
