package markdowncmd

import (
	"context"
	"errors"

	"github.com/spf13/afero"

	"github.com/goliatone/go-tasklists/internal/commands"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the Markdown command handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	RenderFile      *RenderFileHandler
	RenderDirectory *RenderDirectoryHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	output        afero.Fs
	fileOpts      []commands.HandlerOption[RenderFileCommand]
	directoryOpts []commands.HandlerOption[RenderDirectoryCommand]
}

// WithOutputFs sets the filesystem rendered HTML is written to.
func WithOutputFs(output afero.Fs) Option {
	return func(cfg *options) {
		cfg.output = output
	}
}

// WithRenderFileOptions forwards options to the RenderFileHandler constructor.
func WithRenderFileOptions(opts ...commands.HandlerOption[RenderFileCommand]) Option {
	return func(cfg *options) {
		cfg.fileOpts = append(cfg.fileOpts, opts...)
	}
}

// WithRenderDirectoryOptions forwards options to the RenderDirectoryHandler constructor.
func WithRenderDirectoryOptions(opts ...commands.HandlerOption[RenderDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.directoryOpts = append(cfg.directoryOpts, opts...)
	}
}

// RegisterMarkdownCommands builds Markdown command handlers and registers them with the provided
// registry. A HandlerSet containing the constructed handlers is returned so callers can wire
// additional integrations (dispatcher, cron) as needed.
func RegisterMarkdownCommands(reg CommandRegistry, service interfaces.MarkdownService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("markdown command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "markdown")

	fileHandler := NewRenderFileHandler(service, cfg.output, logger, gates, cfg.fileOpts...)
	directoryHandler := NewRenderDirectoryHandler(service, cfg.output, logger, gates, cfg.directoryOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(fileHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(directoryHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		RenderFile:      fileHandler,
		RenderDirectory: directoryHandler,
	}, nil
}

// RegisterMarkdownCron schedules periodic re-renders of a directory through the supplied
// registrar. The handler runs with a background context.
func RegisterMarkdownCron(reg CronRegistrar, handler *RenderDirectoryHandler, cfg command.HandlerConfig, msg RenderDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
