package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/internal/tasklists"
	"github.com/goliatone/go-tasklists/internal/token"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

const (
	// RuleBlock builds block tokens from the goldmark AST.
	RuleBlock = "block"
	// RuleInline fills the children of inline tokens.
	RuleInline = tasklists.AfterRule
)

// GoldmarkParser implements interfaces.MarkdownParser on top of goldmark. The
// goldmark AST is flattened into tokens, core rules (including the task-list
// rewriter) run over them, and the token renderer produces the HTML.
// The parser keeps no per-render state and can be shared.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	logger         interfaces.Logger
	idStrategy     string
	idScope        string
}

// ParserOption customises a GoldmarkParser.
type ParserOption func(*GoldmarkParser)

// WithParserLogger sets the logger handed to the task-list rewriter.
func WithParserLogger(logger interfaces.Logger) ParserOption {
	return func(p *GoldmarkParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIDStrategy selects how label-after checkbox ids are produced
// ("random", "sequential" or "deterministic").
func WithIDStrategy(name string) ParserOption {
	return func(p *GoldmarkParser) {
		p.idStrategy = strings.TrimSpace(name)
	}
}

// NewGoldmarkParser constructs a parser with the supplied defaults. With no
// extensions configured the parser enables gfm, linkify and tasklist.
func NewGoldmarkParser(defaults interfaces.ParseOptions, opts ...ParserOption) *GoldmarkParser {
	p := &GoldmarkParser{
		defaultOptions: defaults,
		logger:         logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Scoped returns a copy of the parser whose deterministic ids are derived from
// scope, usually the document path.
func (p *GoldmarkParser) Scoped(scope string) *GoldmarkParser {
	clone := *p
	clone.idScope = scope
	return &clone
}

// Defaults returns the options used by Parse.
func (p *GoldmarkParser) Defaults() interfaces.ParseOptions {
	return p.defaultOptions
}

// Parse renders Markdown into HTML using the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions renders Markdown into HTML using the provided options.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	result, err := p.ParseResult(markdown, opts)
	if err != nil {
		return nil, err
	}
	return result.HTML, nil
}

// ParseResult renders Markdown and reports the task-list summary.
func (p *GoldmarkParser) ParseResult(markdown []byte, opts interfaces.ParseOptions) (*interfaces.RenderResult, error) {
	state, err := p.process(markdown, opts)
	if err != nil {
		return nil, err
	}

	out := NewHTMLRenderer()
	out.Breaks = opts.HardWraps

	summary, _ := tasklists.SummaryFromState(state)
	return &interfaces.RenderResult{
		HTML:  []byte(out.Render(state.Tokens)),
		Tasks: summary,
	}, nil
}

// Tokens returns the token sequence after every core rule has run.
func (p *GoldmarkParser) Tokens(markdown []byte, opts interfaces.ParseOptions) ([]*token.Token, error) {
	state, err := p.process(markdown, opts)
	if err != nil {
		return nil, err
	}
	return state.Tokens, nil
}

func (p *GoldmarkParser) process(markdown []byte, opts interfaces.ParseOptions) (*token.State, error) {
	set := collectExtensions(opts.Extensions)
	engine := newGoldmarkEngine(opts, set.extenders)
	source := bytes.Clone(markdown)
	tk := newTokenizer(source, opts.SafeMode || opts.Sanitize, engine.Renderer())

	ruler := &token.Ruler{}
	if err := ruler.Push(RuleBlock, func(state *token.State) bool {
		doc := engine.Parser().Parse(text.NewReader(state.Source))
		state.Tokens = tk.Blocks(doc)
		return false
	}); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	if err := ruler.Push(RuleInline, func(state *token.State) bool {
		tk.Inline(state.Tokens)
		return false
	}); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}

	if set.taskLists {
		if err := tasklists.ValidateOptions(opts.TaskLists); err != nil {
			return nil, fmt.Errorf("markdown parse: %w", err)
		}
		rewriter := tasklists.NewRewriter(opts.TaskLists,
			tasklists.WithLogger(p.logger),
			tasklists.WithIDSource(tasklists.IDSourceByName(p.idStrategy, p.idScope)),
		)
		if err := rewriter.Register(ruler); err != nil {
			return nil, fmt.Errorf("markdown parse: %w", err)
		}
	}

	state := token.NewState(source)
	ruler.Process(state)
	return state, nil
}

// newGoldmarkEngine builds the goldmark instance used for parsing and for
// rendering node kinds the tokenizer does not model.
func newGoldmarkEngine(opts interfaces.ParseOptions, exts []goldmark.Extender) goldmark.Markdown {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}

	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	// SafeMode and Sanitize both mean no raw HTML in the output.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}

	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

// ExtensionTaskList is the extension name that switches the rewriter on.
const ExtensionTaskList = "tasklist"

// gfm is expanded by hand: goldmark's own GFM bundle includes its task-list
// parser, which would consume the markers before the rewriter sees them.
var extensionRegistry = map[string][]goldmark.Extender{
	"gfm":           {extension.Table, extension.Strikethrough, extension.Linkify},
	"table":         {extension.Table},
	"tables":        {extension.Table},
	"strikethrough": {extension.Strikethrough},
	"linkify":       {extension.Linkify},
	"autolink":      {extension.Linkify},
	"definition":    {extension.DefinitionList},
	"footnote":      {extension.Footnote},
}

var defaultExtensions = []string{"gfm", "linkify", ExtensionTaskList}

type extensionSet struct {
	extenders []goldmark.Extender
	taskLists bool
}

func collectExtensions(names []string) extensionSet {
	if len(names) == 0 {
		names = defaultExtensions
	}

	var set extensionSet
	seen := map[goldmark.Extender]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if key == ExtensionTaskList || key == "tasklists" {
			set.taskLists = true
			continue
		}

		for _, ext := range extensionRegistry[key] {
			if _, ok := seen[ext]; ok {
				continue
			}
			seen[ext] = struct{}{}
			set.extenders = append(set.extenders, ext)
		}
	}

	return set
}
