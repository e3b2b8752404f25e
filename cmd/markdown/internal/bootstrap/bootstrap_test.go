package bootstrap

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

func siteDir() string {
	return filepath.Join("..", "..", "..", "..", "internal", "markdown", "testdata", "site")
}

func TestBuildModule(t *testing.T) {
	module, err := BuildModule(Options{
		ContentDir: siteDir(),
		Recursive:  true,
		TaskLists:  TaskListFlags{Label: true, LabelAfter: true, IDStrategy: "sequential"},
	})
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}
	if module.Service == nil || module.Handlers == nil || module.Logger == nil {
		t.Fatalf("expected service, handlers and logger, got %+v", module)
	}

	doc, err := module.Service.Load(context.Background(), "todo.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(string(doc.BodyHTML), `for="task-item-1"`) {
		t.Fatalf("expected sequential label-after ids, got %q", string(doc.BodyHTML))
	}
}

func TestBuildModuleIgnoresLabelAfterWithoutLabel(t *testing.T) {
	module, err := BuildModule(Options{
		ContentDir: siteDir(),
		TaskLists:  TaskListFlags{LabelAfter: true},
	})
	if err != nil {
		t.Fatalf("BuildModule: %v", err)
	}

	doc, err := module.Service.Load(context.Background(), "todo.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Contains(string(doc.BodyHTML), "<label") {
		t.Fatalf("expected no label markup without -label, got %q", string(doc.BodyHTML))
	}
}

func TestRegisterTaskListFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterTaskListFlags(fs)

	if err := fs.Parse([]string{"-enabled", "-label", "-line-number", "-id-prefix", "todo", "-id-strategy", "deterministic"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !flags.Enabled || !flags.Label || flags.LabelAfter || !flags.LineNumber {
		t.Fatalf("unexpected boolean flags %+v", flags)
	}
	if flags.IDPrefix != "todo" || flags.IDStrategy != "deterministic" {
		t.Fatalf("unexpected string flags %+v", flags)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" gfm, ,tasklist ")
	if len(got) != 2 || got[0] != "gfm" || got[1] != "tasklist" {
		t.Fatalf("expected [gfm tasklist], got %v", got)
	}
	if SplitList("  ") != nil {
		t.Fatal("expected nil for blank input")
	}
}
