package bootstrap

import (
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/goliatone/go-tasklists"
	"github.com/goliatone/go-tasklists/internal/di"
	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/internal/util"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

// Options captures configuration for markdown CLI bootstraps.
type Options struct {
	ContentDir     string
	Pattern        string
	Recursive      bool
	Extensions     []string
	SafeMode       bool
	TaskLists      TaskListFlags
	LogLevel       string
	OutputFs       afero.Fs
	LoggerProvider interfaces.LoggerProvider
}

// TaskListFlags holds the task-list flags shared by the markdown CLIs.
type TaskListFlags struct {
	Enabled    bool
	Label      bool
	LabelAfter bool
	LineNumber bool
	IDPrefix   string
	IDStrategy string
}

// RegisterTaskListFlags binds the task-list flags onto fs.
func RegisterTaskListFlags(fs *flag.FlagSet) *TaskListFlags {
	flags := &TaskListFlags{}
	fs.BoolVar(&flags.Enabled, "enabled", false, "Render interactive checkboxes (omit the disabled attribute)")
	fs.BoolVar(&flags.Label, "label", false, "Wrap checkboxes in a label element")
	fs.BoolVar(&flags.LabelAfter, "label-after", false, "Place the label after the checkbox, linked by id (ignored without -label)")
	fs.BoolVar(&flags.LineNumber, "line-number", false, "Add the source line as a data-line attribute")
	fs.StringVar(&flags.IDPrefix, "id-prefix", "task-item", "Prefix for generated checkbox ids")
	fs.StringVar(&flags.IDStrategy, "id-strategy", tasklists.IDStrategyRandom, "Checkbox id strategy: random, sequential or deterministic")
	return flags
}

// Module wraps the task-list module and the configured markdown service/logger.
type Module struct {
	Module   *tasklists.Module
	Service  interfaces.MarkdownService
	Handlers *tasklists.CommandHandlers
	Logger   interfaces.Logger
}

// BuildModule constructs a module configured for markdown operations with the
// render commands enabled.
func BuildModule(opts Options) (*Module, error) {
	cfg := tasklists.DefaultConfig()
	cfg.Features.Markdown = true
	cfg.Features.Commands = true
	cfg.Markdown.Enabled = true
	cfg.Commands.Enabled = true
	cfg.Markdown.ContentDir = util.FirstNonEmpty(strings.TrimSpace(opts.ContentDir), "content")
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	cfg.Markdown.Recursive = opts.Recursive
	cfg.Markdown.Parser.Extensions = cloneStrings(opts.Extensions)
	cfg.Markdown.Parser.SafeMode = opts.SafeMode

	cfg.TaskLists = tasklists.TaskListConfig{
		Enabled:    opts.TaskLists.Enabled,
		Label:      opts.TaskLists.Label,
		LabelAfter: opts.TaskLists.LabelAfter,
		LineNumber: opts.TaskLists.LineNumber,
		IDPrefix:   opts.TaskLists.IDPrefix,
		IDStrategy: opts.TaskLists.IDStrategy,
	}

	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = level
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	if opts.OutputFs != nil {
		diOpts = append(diOpts, di.WithOutputFs(opts.OutputFs))
	}

	module, err := tasklists.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise tasklists module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		return nil, fmt.Errorf("markdown service not configured; ensure markdown feature is enabled")
	}

	logger := logging.MarkdownLogger(module.Container().LoggerProvider())

	return &Module{
		Module:   module,
		Service:  service,
		Handlers: module.Commands(),
		Logger:   logger,
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
