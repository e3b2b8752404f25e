package markdowncmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/goliatone/go-tasklists/internal/commands"
	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	renderFileOperation      = "markdown.render_file"
	renderDirectoryOperation = "markdown.render_directory"
)

var (
	// ErrMarkdownFeatureDisabled is returned when the markdown feature flag is disabled at runtime.
	ErrMarkdownFeatureDisabled = errors.New("markdown command: feature disabled")
	// ErrDocumentNotFound is returned when the service yields no document for a path.
	ErrDocumentNotFound = errors.New("markdown command: document not found")
)

var (
	_ command.Commander[RenderFileCommand]      = (*RenderFileHandler)(nil)
	_ command.Commander[RenderDirectoryCommand] = (*RenderDirectoryHandler)(nil)
)

// RenderFileHandler renders one document and writes its HTML.
type RenderFileHandler struct {
	inner *commands.Handler[RenderFileCommand]
}

// NewRenderFileHandler creates a handler bound to the supplied Markdown service.
// Output is written through output; a nil filesystem writes to disk.
func NewRenderFileHandler(service interfaces.MarkdownService, output afero.Fs, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenderFileCommand]) *RenderFileHandler {
	baseLogger := commands.EnsureLogger(logger)
	output = ensureFs(output)

	exec := func(ctx context.Context, msg RenderFileCommand) error {
		if !gates.markdownEnabled() {
			return ErrMarkdownFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		doc, err := service.Load(ctx, msg.Path, interfaces.LoadOptions{})
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, msg.Path)
		}
		if err := writeHTML(output, msg.Output, doc.BodyHTML); err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"output":        msg.Output,
			"bytes":         len(doc.BodyHTML),
			"tasks_total":   doc.Tasks.Total,
			"tasks_checked": doc.Tasks.Checked,
		}).Info("markdown.command.render_file.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderFileCommand]{
		commands.WithLogger[RenderFileCommand](baseLogger),
		commands.WithOperation[RenderFileCommand](renderFileOperation),
		commands.WithMessageFields(func(msg RenderFileCommand) map[string]any {
			return map[string]any{
				"path":   msg.Path,
				"output": msg.Output,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderFileCommand].
func (h *RenderFileHandler) Execute(ctx context.Context, msg RenderFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderDirectoryHandler renders a directory of documents into an output tree.
type RenderDirectoryHandler struct {
	inner *commands.Handler[RenderDirectoryCommand]
}

// NewRenderDirectoryHandler creates a handler bound to the supplied Markdown service.
// A failed write does not stop the run; every failure is reported together.
func NewRenderDirectoryHandler(service interfaces.MarkdownService, output afero.Fs, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RenderDirectoryCommand]) *RenderDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)
	output = ensureFs(output)

	exec := func(ctx context.Context, msg RenderDirectoryCommand) error {
		if !gates.markdownEnabled() {
			return ErrMarkdownFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		docs, err := service.LoadDirectory(ctx, msg.Directory, interfaces.LoadOptions{
			Pattern:   msg.Pattern,
			Recursive: msg.Recursive,
		})
		if err != nil {
			return err
		}

		var (
			writeErr error
			written  int
			summary  interfaces.TaskSummary
		)
		for _, doc := range docs {
			if doc == nil {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			target := OutputPath(msg.OutputDir, doc.FilePath)
			if err := writeHTML(output, target, doc.BodyHTML); err != nil {
				writeErr = multierr.Append(writeErr, err)
				continue
			}
			written++
			summary.Total += doc.Tasks.Total
			summary.Checked += doc.Tasks.Checked
		}

		logging.WithFields(baseLogger, map[string]any{
			"output_dir":    msg.OutputDir,
			"documents":     len(docs),
			"written":       written,
			"error_count":   len(multierr.Errors(writeErr)),
			"tasks_total":   summary.Total,
			"tasks_checked": summary.Checked,
		}).Info("markdown.command.render_directory.completed")
		return writeErr
	}

	handlerOpts := []commands.HandlerOption[RenderDirectoryCommand]{
		commands.WithLogger[RenderDirectoryCommand](baseLogger),
		commands.WithOperation[RenderDirectoryCommand](renderDirectoryOperation),
		commands.WithMessageFields(func(msg RenderDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory":  msg.Directory,
				"output_dir": msg.OutputDir,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Recursive != nil {
				fields["recursive"] = *msg.Recursive
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderDirectoryCommand].
func (h *RenderDirectoryHandler) Execute(ctx context.Context, msg RenderDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// OutputPath maps a document path onto outputDir with an .html extension.
func OutputPath(outputDir, documentPath string) string {
	rel := filepath.FromSlash(documentPath)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(outputDir, rel)
}

func writeHTML(output afero.Fs, path string, html []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := output.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("markdown command: create directory for %s: %w", path, err)
		}
	}
	if err := afero.WriteFile(output, path, html, 0o644); err != nil {
		return fmt.Errorf("markdown command: write %s: %w", path, err)
	}
	return nil
}

func ensureFs(output afero.Fs) afero.Fs {
	if output == nil {
		return afero.NewOsFs()
	}
	return output
}
