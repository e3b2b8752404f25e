package di

import (
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/spf13/afero"

	"github.com/goliatone/go-tasklists/internal/commands"
	markdowncmd "github.com/goliatone/go-tasklists/internal/commands/markdown"
	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/internal/logging/console"
	"github.com/goliatone/go-tasklists/internal/logging/gologger"
	"github.com/goliatone/go-tasklists/internal/markdown"
	"github.com/goliatone/go-tasklists/internal/runtimeconfig"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	parser         interfaces.MarkdownParser
	markdownSvc    interfaces.MarkdownService

	commandRegistry markdowncmd.CommandRegistry
	cronRegistrar   markdowncmd.CronRegistrar
	cronConfig      command.HandlerConfig
	outputFs        afero.Fs

	markdownCommands *markdowncmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithMarkdownParser overrides the default goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithMarkdownService overrides the filesystem-backed markdown service.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		if svc != nil {
			c.markdownSvc = svc
		}
	}
}

// WithCommandRegistry registers command handlers with reg when commands are enabled.
func WithCommandRegistry(reg markdowncmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// WithCronRegistrar schedules the directory render using cfg when commands are enabled.
func WithCronRegistrar(reg markdowncmd.CronRegistrar, cfg command.HandlerConfig) Option {
	return func(c *Container) {
		c.cronRegistrar = reg
		c.cronConfig = cfg
	}
}

// WithOutputFs sets the filesystem command handlers write rendered HTML to.
func WithOutputFs(output afero.Fs) Option {
	return func(c *Container) {
		c.outputFs = output
	}
}

// NewContainer validates cfg and builds the logger provider, parser, markdown
// service and command handlers it enables.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureParser()
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	if err := c.configureCommands(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = nil
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureParser() {
	if c.parser != nil {
		return
	}
	c.parser = markdown.NewGoldmarkParser(c.Config.ParseOptions(),
		markdown.WithParserLogger(logging.RewriterLogger(c.loggerProvider)),
		markdown.WithIDStrategy(c.Config.TaskLists.IDStrategy),
	)
}

func (c *Container) configureMarkdown() error {
	if c.markdownSvc != nil || !c.Config.Markdown.Enabled {
		return nil
	}

	svc, err := markdown.NewService(markdown.Config{
		BasePath:   c.Config.Markdown.ContentDir,
		Pattern:    c.Config.Markdown.Pattern,
		Recursive:  c.Config.Markdown.Recursive,
		Parser:     c.Config.ParseOptions(),
		IDStrategy: c.Config.TaskLists.IDStrategy,
	}, c.parser, markdown.WithServiceLogger(logging.MarkdownLogger(c.loggerProvider)))
	if err != nil {
		return fmt.Errorf("di: configure markdown service: %w", err)
	}
	c.markdownSvc = svc

	logging.WithFields(logging.MarkdownLogger(c.loggerProvider), map[string]any{
		"content_dir": c.Config.Markdown.ContentDir,
		"pattern":     c.Config.Markdown.Pattern,
		"recursive":   c.Config.Markdown.Recursive,
		"id_strategy": c.Config.TaskLists.IDStrategy,
	}).Debug("markdown.service.configured")
	return nil
}

func (c *Container) configureCommands() error {
	if !c.Config.Commands.Enabled || c.markdownSvc == nil {
		return nil
	}

	gates := markdowncmd.FeatureGates{
		MarkdownEnabled: func() bool { return c.Config.Features.Markdown },
	}
	opts := []markdowncmd.Option{markdowncmd.WithOutputFs(c.outputFs)}
	// Zero keeps the handler default.
	if timeout := c.Config.Commands.Timeout; timeout > 0 {
		opts = append(opts,
			markdowncmd.WithRenderFileOptions(commands.WithTimeout[markdowncmd.RenderFileCommand](timeout)),
			markdowncmd.WithRenderDirectoryOptions(commands.WithTimeout[markdowncmd.RenderDirectoryCommand](timeout)),
		)
	}

	set, err := markdowncmd.RegisterMarkdownCommands(c.commandRegistry, c.markdownSvc, c.loggerProvider, gates, opts...)
	if err != nil {
		return fmt.Errorf("di: register markdown commands: %w", err)
	}
	c.markdownCommands = set

	if c.cronRegistrar != nil {
		msg := markdowncmd.RenderDirectoryCommand{
			Directory: ".",
			OutputDir: c.Config.Markdown.OutputDir,
			Pattern:   c.Config.Markdown.Pattern,
		}
		if err := markdowncmd.RegisterMarkdownCron(c.cronRegistrar, set.RenderDirectory, c.cronConfig, msg); err != nil {
			return fmt.Errorf("di: register markdown cron: %w", err)
		}
	}
	return nil
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// MarkdownParser returns the parser used for in-memory renders.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.parser
}

// MarkdownService returns the markdown service, nil unless markdown is enabled.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// MarkdownCommands returns the registered command handlers, nil unless commands are enabled.
func (c *Container) MarkdownCommands() *markdowncmd.HandlerSet {
	return c.markdownCommands
}
