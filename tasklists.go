// Package tasklists renders GitHub-style task lists ("- [ ] item") as
// checkbox list items. It exposes a configured Module for filesystem-backed
// rendering and package-level helpers for one-off renders and token rewrites.
package tasklists

import (
	markdowncmd "github.com/goliatone/go-tasklists/internal/commands/markdown"
	"github.com/goliatone/go-tasklists/internal/di"
	"github.com/goliatone/go-tasklists/internal/markdown"
	rewriter "github.com/goliatone/go-tasklists/internal/tasklists"
	"github.com/goliatone/go-tasklists/internal/token"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

type (
	// Token is one element of a parsed document's flat token sequence.
	Token = token.Token
	// Attr is a token attribute.
	Attr = token.Attr
	// TaskListOptions controls checkbox rendering.
	TaskListOptions = interfaces.TaskListOptions
	// TaskSummary counts the task items of one render.
	TaskSummary = interfaces.TaskSummary
	// RenderResult bundles HTML with its task summary.
	RenderResult = interfaces.RenderResult
	// Document is a loaded Markdown file.
	Document = interfaces.Document
	// LoadOptions fine-tunes document discovery.
	LoadOptions = interfaces.LoadOptions
	// ParseOptions customises a single parse.
	ParseOptions = interfaces.ParseOptions
	// MarkdownService exports the filesystem-backed document service contract.
	MarkdownService = interfaces.MarkdownService
	// MarkdownParser exports the parser contract.
	MarkdownParser = interfaces.MarkdownParser
	// CommandHandlers groups the render command handlers.
	CommandHandlers = markdowncmd.HandlerSet
	// Option customises module wiring.
	Option = di.Option
)

// Module is the configured task-list runtime.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg. Options override the parser, service,
// logger provider or command wiring.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Markdown returns the markdown service, nil unless Markdown.Enabled is set.
func (m *Module) Markdown() MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownService()
}

// Parser returns the parser configured from the task-list and parser sections.
func (m *Module) Parser() MarkdownParser {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownParser()
}

// Commands returns the render command handlers, nil unless commands are enabled.
func (m *Module) Commands() *CommandHandlers {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownCommands()
}

// Render converts Markdown into HTML with task lists rewritten using opts.
func Render(src []byte, opts TaskListOptions) ([]byte, error) {
	return markdown.NewGoldmarkParser(ParseOptions{}).ParseWithOptions(src, ParseOptions{TaskLists: opts})
}

// RenderWithSummary is Render plus the task summary of the document.
func RenderWithSummary(src []byte, opts TaskListOptions) (*RenderResult, error) {
	return markdown.NewGoldmarkParser(ParseOptions{}).ParseResult(src, ParseOptions{TaskLists: opts})
}

// Rewrite applies the task-list rewrite to an already tokenized document in
// place. Label-after ids are random.
func Rewrite(tokens []*Token, opts TaskListOptions) TaskSummary {
	return rewriter.NewRewriter(opts).Rewrite(tokens)
}
