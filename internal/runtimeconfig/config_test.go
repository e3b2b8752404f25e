package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-tasklists/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.TaskLists.IDPrefix != "task-item" {
		t.Fatalf("expected default id prefix task-item, got %s", cfg.TaskLists.IDPrefix)
	}
}

func TestConfigValidate_RequiresMarkdownFeature(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Enabled = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMarkdownFeatureRequired) {
		t.Fatalf("expected ErrMarkdownFeatureRequired, got %v", err)
	}

	cfg.Features.Markdown = true
	cfg.Markdown.ContentDir = " "
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMarkdownContentDirRequired) {
		t.Fatalf("expected ErrMarkdownContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_Commands(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.Enabled = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCommandsFeatureRequired) {
		t.Fatalf("expected ErrCommandsFeatureRequired, got %v", err)
	}

	cfg.Features.Commands = true
	cfg.Commands.Timeout = -time.Second
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCommandsTimeoutInvalid) {
		t.Fatalf("expected ErrCommandsTimeoutInvalid, got %v", err)
	}
}

func TestConfigValidate_TaskLists(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "invalid prefix",
			mutate: func(cfg *runtimeconfig.Config) { cfg.TaskLists.IDPrefix = "Task Item!" },
			want:   runtimeconfig.ErrTaskListsIDPrefixInvalid,
		},
		{
			name:   "unknown strategy",
			mutate: func(cfg *runtimeconfig.Config) { cfg.TaskLists.IDStrategy = "counter" },
			want:   runtimeconfig.ErrTaskListsIDStrategyUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AcceptsLabelAfterWithoutLabel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.TaskLists.LabelAfter = true

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected label_after alone to be accepted, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevelAndFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfigParseOptions(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Markdown.Parser.Extensions = []string{"gfm", "tasklist"}
	cfg.Markdown.Parser.HardWraps = true
	cfg.TaskLists.Label = true
	cfg.TaskLists.IDPrefix = " todo "

	opts := cfg.ParseOptions()
	if len(opts.Extensions) != 2 || !opts.HardWraps {
		t.Fatalf("expected parser settings to carry over, got %+v", opts)
	}
	if !opts.TaskLists.Label || opts.TaskLists.IDPrefix != "todo" {
		t.Fatalf("expected task list settings to carry over, got %+v", opts.TaskLists)
	}

	opts.Extensions[0] = "changed"
	if cfg.Markdown.Parser.Extensions[0] != "gfm" {
		t.Fatalf("expected extensions to be copied")
	}
}
