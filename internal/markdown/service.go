package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

// ErrDocumentNil is returned when RenderDocument receives no document.
var ErrDocumentNil = errors.New("markdown service: document is nil")

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
	// IDStrategy selects label-after id generation for the default parser.
	IDStrategy string
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for render events.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Markdown service using an underlying loader. When parser
// is nil, a Goldmark parser with the provided default options is created.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser,
			WithParserLogger(svc.logger),
			WithIDStrategy(cfg.IDStrategy),
		)
	}
	svc.parser = parser

	svc.loader = NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return svc, nil
}

// Load reads a single Markdown document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(ctx, result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every Markdown document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if err := s.renderDocument(ctx, result.Document, opts.Parser); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	result, err := s.render(ctx, s.parser, markdown, mergeParseOptions(s.cfg.Parser, opts))
	if err != nil {
		return nil, err
	}
	return result.HTML, nil
}

// RenderDocument converts the document's Markdown body into HTML, honouring
// the document's own task-list settings, and records the task summary.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, ErrDocumentNil
	}
	if err := s.renderDocument(ctx, doc, opts); err != nil {
		return nil, err
	}
	return doc.BodyHTML, nil
}

func (s *Service) renderDocument(ctx context.Context, doc *interfaces.Document, overrides interfaces.ParseOptions) error {
	if doc == nil {
		return nil
	}

	opts := mergeParseOptions(s.cfg.Parser, overrides)
	opts.TaskLists = doc.FrontMatter.TaskLists.Apply(opts.TaskLists)

	result, err := s.render(ctx, s.parserFor(doc.FilePath), doc.Body, opts)
	if err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = result.HTML
	doc.Tasks = result.Tasks

	logging.WithDocumentContext(s.logger.WithContext(ctx), doc.FilePath, "render").Debug("markdown.document.rendered",
		"tasks_total", result.Tasks.Total,
		"tasks_checked", result.Tasks.Checked,
	)
	return nil
}

func (s *Service) render(ctx context.Context, parser interfaces.MarkdownParser, markdown []byte, opts interfaces.ParseOptions) (*interfaces.RenderResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if rp, ok := parser.(interfaces.ResultParser); ok {
		return rp.ParseResult(markdown, opts)
	}
	html, err := parser.ParseWithOptions(markdown, opts)
	if err != nil {
		return nil, err
	}
	return &interfaces.RenderResult{HTML: html}, nil
}

// parserFor scopes deterministic checkbox ids to the document path.
func (s *Service) parserFor(path string) interfaces.MarkdownParser {
	if gp, ok := s.parser.(*GoldmarkParser); ok {
		return gp.Scoped(path)
	}
	return s.parser
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	result.TaskLists = mergeTaskListOptions(base.TaskLists, override.TaskLists)
	return result
}

func mergeTaskListOptions(base, override interfaces.TaskListOptions) interfaces.TaskListOptions {
	result := base
	if override.Enabled {
		result.Enabled = true
	}
	if override.Label {
		result.Label = true
	}
	if override.LabelAfter {
		result.LabelAfter = true
	}
	if override.LineNumber {
		result.LineNumber = true
	}
	if strings.TrimSpace(override.IDPrefix) != "" {
		result.IDPrefix = override.IDPrefix
	}
	return result
}

func toLoaderParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
