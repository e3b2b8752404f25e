package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations run the task-list rewrite between tokenization and rendering
// when the tasklist extension is enabled.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ResultParser is an optional extension for parsers that can report task-list
// statistics alongside the rendered HTML.
type ResultParser interface {
	ParseResult(markdown []byte, opts ParseOptions) (*RenderResult, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
	TaskLists  TaskListOptions
}

// TaskListOptions controls how GitHub task-list items are rendered.
type TaskListOptions struct {
	// Enabled renders interactive checkboxes (no disabled attribute).
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Label wraps the checkbox and its text in a label element.
	Label bool `yaml:"label" json:"label"`
	// LabelAfter places a label after the checkbox, linked by id, instead of wrapping it.
	LabelAfter bool `yaml:"label_after" json:"label_after"`
	// LineNumber adds the zero-based source line as a data-line attribute.
	LineNumber bool `yaml:"line_number" json:"line_number"`
	// IDPrefix is the slug prepended to generated checkbox ids in label-after mode.
	IDPrefix string `yaml:"id_prefix" json:"id_prefix"`
}

// TaskSummary counts the task-list items found in one rendered document.
type TaskSummary struct {
	Total   int `json:"total"`
	Checked int `json:"checked"`
}

// Open returns the number of unchecked items.
func (s TaskSummary) Open() int {
	return s.Total - s.Checked
}

// RenderResult bundles rendered HTML with the task-list summary.
type RenderResult struct {
	HTML  []byte
	Tasks TaskSummary
}

// MarkdownService exposes filesystem-backed document workflows: loading
// Markdown documents and converting them into HTML.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	Tasks        TaskSummary
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. TaskLists carries
// per-document overrides applied on top of the service defaults.
type FrontMatter struct {
	Title     string            `yaml:"title" json:"title"`
	Slug      string            `yaml:"slug" json:"slug"`
	Summary   string            `yaml:"summary" json:"summary"`
	Tags      []string          `yaml:"tags" json:"tags"`
	Draft     bool              `yaml:"draft" json:"draft"`
	TaskLists *TaskListOverride `yaml:"tasklists" json:"tasklists,omitempty"`
	Custom    map[string]any    `yaml:",inline" json:"custom"`
	Raw       map[string]any    `yaml:"-" json:"raw"`
}

// TaskListOverride holds the task-list settings a document may set for itself.
// Nil fields keep the caller's value.
type TaskListOverride struct {
	Enabled    *bool `yaml:"enabled" json:"enabled,omitempty"`
	Label      *bool `yaml:"label" json:"label,omitempty"`
	LabelAfter *bool `yaml:"label_after" json:"label_after,omitempty"`
	LineNumber *bool `yaml:"line_number" json:"line_number,omitempty"`
}

// Apply returns opts with the override's non-nil fields applied.
func (o *TaskListOverride) Apply(opts TaskListOptions) TaskListOptions {
	if o == nil {
		return opts
	}
	if o.Enabled != nil {
		opts.Enabled = *o.Enabled
	}
	if o.Label != nil {
		opts.Label = *o.Label
	}
	if o.LabelAfter != nil {
		opts.LabelAfter = *o.LabelAfter
	}
	if o.LineNumber != nil {
		opts.LineNumber = *o.LineNumber
	}
	return opts
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
