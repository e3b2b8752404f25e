package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-tasklists/internal/tasklists"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

var ErrMarkdownFeatureRequired = errors.New("tasklists config: markdown feature must be enabled to configure markdown")
var ErrMarkdownContentDirRequired = errors.New("tasklists config: markdown content directory is required when markdown is enabled")
var ErrCommandsFeatureRequired = errors.New("tasklists config: commands feature must be enabled to configure commands")
var ErrCommandsTimeoutInvalid = errors.New("tasklists config: command timeout must be zero or positive")
var ErrTaskListsIDPrefixInvalid = errors.New("tasklists config: id prefix must be a valid slug")
var ErrTaskListsIDStrategyUnknown = errors.New("tasklists config: id strategy is invalid")
var ErrLoggingProviderRequired = errors.New("tasklists config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("tasklists config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("tasklists config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("tasklists config: logging format is invalid")

// ID strategies accepted by TaskListConfig.IDStrategy.
const (
	IDStrategyRandom        = "random"
	IDStrategySequential    = "sequential"
	IDStrategyDeterministic = "deterministic"
)

// Config aggregates feature flags and settings for the task-list module.
type Config struct {
	Markdown  MarkdownConfig
	TaskLists TaskListConfig
	Commands  CommandsConfig
	Features  Features
	Logging   LoggingConfig
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown rendering.
type MarkdownConfig struct {
	Enabled    bool
	ContentDir string
	OutputDir  string
	Pattern    string
	Recursive  bool
	Parser     MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// TaskListConfig mirrors interfaces.TaskListOptions and adds the id strategy.
// LabelAfter has no effect unless Label is set.
type TaskListConfig struct {
	Enabled    bool
	Label      bool
	LabelAfter bool
	LineNumber bool
	IDPrefix   string
	IDStrategy string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool
	Timeout time.Duration
}

// Features toggles module functionality.
type Features struct {
	Markdown bool
	Commands bool
	Logger   bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used by the CLIs: random ids, the default
// extension set and console logging.
func DefaultConfig() Config {
	return Config{
		Markdown: MarkdownConfig{
			ContentDir: "content",
			OutputDir:  "dist",
			Pattern:    "*.md",
			Recursive:  true,
		},
		TaskLists: TaskListConfig{
			IDPrefix:   tasklists.DefaultIDPrefix,
			IDStrategy: IDStrategyRandom,
		},
		Commands: CommandsConfig{},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// ParseOptions converts the parser and task-list sections into parse options.
func (cfg Config) ParseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), cfg.Markdown.Parser.Extensions...),
		Sanitize:   cfg.Markdown.Parser.Sanitize,
		HardWraps:  cfg.Markdown.Parser.HardWraps,
		SafeMode:   cfg.Markdown.Parser.SafeMode,
		TaskLists:  cfg.TaskLists.Options(),
	}
}

// Options returns the rewriter options described by the section.
func (c TaskListConfig) Options() interfaces.TaskListOptions {
	return interfaces.TaskListOptions{
		Enabled:    c.Enabled,
		Label:      c.Label,
		LabelAfter: c.LabelAfter,
		LineNumber: c.LineNumber,
		IDPrefix:   strings.TrimSpace(c.IDPrefix),
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Markdown.Enabled {
		if !cfg.Features.Markdown {
			return ErrMarkdownFeatureRequired
		}
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrMarkdownContentDirRequired
		}
	}
	if cfg.Commands.Enabled && !cfg.Features.Commands {
		return ErrCommandsFeatureRequired
	}
	if cfg.Commands.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrCommandsTimeoutInvalid, cfg.Commands.Timeout)
	}
	if err := tasklists.ValidateOptions(cfg.TaskLists.Options()); err != nil {
		return fmt.Errorf("%w: %s", ErrTaskListsIDPrefixInvalid, cfg.TaskLists.IDPrefix)
	}
	if strategy := strings.TrimSpace(cfg.TaskLists.IDStrategy); strategy != "" && !isSupportedIDStrategy(strategy) {
		return fmt.Errorf("%w: %s", ErrTaskListsIDStrategyUnknown, strategy)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedIDStrategy(strategy string) bool {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case IDStrategyRandom, IDStrategySequential, IDStrategyDeterministic:
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
