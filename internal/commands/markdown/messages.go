package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	renderFileMessageType      = "tasklists.markdown.render_file"
	renderDirectoryMessageType = "tasklists.markdown.render_directory"
)

// RenderFileCommand renders a single Markdown document and writes the HTML to
// Output. Path is resolved against the service base path.
type RenderFileCommand struct {
	// Path selects the Markdown document to render.
	Path string `json:"path"`
	// Output is the HTML file to write.
	Output string `json:"output"`
}

// Type implements command.Message.
func (RenderFileCommand) Type() string { return renderFileMessageType }

// Validate ensures both the source and destination are present.
func (cmd RenderFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.By(requiredText("tasklists.markdown.render_file.path_required", "path is required"))),
		validation.Field(&cmd.Output, validation.By(requiredText("tasklists.markdown.render_file.output_required", "output is required"))),
	)
}

// RenderDirectoryCommand renders every Markdown document under Directory into
// OutputDir, mirroring the source layout with .html extensions.
type RenderDirectoryCommand struct {
	// Directory selects the folder (relative to the service base path) to render.
	Directory string `json:"directory"`
	// OutputDir receives the rendered HTML files.
	OutputDir string `json:"output_dir"`
	// Pattern overrides the loader glob (e.g. "**/*.md").
	Pattern string `json:"pattern,omitempty"`
	// Recursive overrides the loader recursion setting when non-nil.
	Recursive *bool `json:"recursive,omitempty"`
}

// Type implements command.Message.
func (RenderDirectoryCommand) Type() string { return renderDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd RenderDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(requiredText("tasklists.markdown.render_directory.directory_required", "directory is required"))),
		validation.Field(&cmd.OutputDir, validation.By(requiredText("tasklists.markdown.render_directory.output_dir_required", "output directory is required"))),
	)
}

func requiredText(code, message string) validation.RuleFunc {
	return func(value any) error {
		text, _ := value.(string)
		if strings.TrimSpace(text) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
