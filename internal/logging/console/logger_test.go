package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
		Fields:   map[string]any{"app": "tasklists"},
	})

	logger := provider.GetLogger("tasklists.rewriter")
	logger = logging.WithFields(logger, map[string]any{"module": "tasklists.rewriter"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"document_path": "notes/todo.md",
	})
	logger = logger.WithContext(ctx)

	logger.Info("tasklists.rewrite.completed", "total", 3, "checked", 1)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO tasklists.rewrite.completed app=tasklists checked=1 document_path=notes/todo.md logger=tasklists.rewriter module=tasklists.rewriter total=3"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("tasklists.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
}

func TestConsoleLogger_QuotesValuesAndKeepsDanglingArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
	})

	provider.GetLogger("tasklists").Warn("render.skipped", "reason", "missing file", "orphan")

	got := buf.String()
	if !strings.Contains(got, `reason="missing file"`) {
		t.Fatalf("expected quoted value, got %s", got)
	}
	if !strings.Contains(got, "field_1=orphan") {
		t.Fatalf("expected dangling argument to be kept, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v (%v)", input, want, got, ok)
		}
	}
	if _, ok := console.ParseLevel("verbose"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
