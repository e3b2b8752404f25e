// Package tasklists rewrites GitHub task-list items (`- [ ]`, `- [x]`, `- [X]`)
// in a tokenized markdown document into checkbox markup.
//
// The rewriter runs once per document, after inline tokenization and before
// rendering. It mutates the token sequence in place: the inline token of every
// matching list item gets a leading checkbox (and optional label markup), the
// list item is tagged with the task-list-item class and its nearest enclosing
// list with contains-task-list. Applying it twice to the same sequence is not
// supported.
package tasklists

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-tasklists/internal/logging"
	"github.com/goliatone/go-tasklists/internal/token"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

const (
	// RuleName is the core rule name the rewriter registers under.
	RuleName = "github-task-lists"
	// AfterRule is the core rule the rewriter must follow.
	AfterRule = "inline"
	// EnvSummaryKey holds the interfaces.TaskSummary of the last pass in State.Env.
	EnvSummaryKey = "tasklists.summary"
)

const (
	markerUnchecked    = "[ ] "
	markerChecked      = "[x] "
	markerCheckedUpper = "[X] "
	// markerWidth is fixed: every recognised marker is three bracket
	// characters plus one space.
	markerWidth = 4
	// bracketWidth covers the marker without its trailing space. The tokenizer
	// drops whitespace before a soft break, so a text run can end right after
	// the brackets.
	bracketWidth = 3
)

const (
	classItem        = "task-list-item"
	classItemEnabled = "task-list-item enabled"
	classContainer   = "contains-task-list"
)

// Rewriter applies the task-list transform to token sequences. It holds only
// immutable configuration and may be shared across goroutines.
type Rewriter struct {
	opts   Options
	prefix string
	ids    IDSource
	logger interfaces.Logger
}

// RewriterOption customises a Rewriter.
type RewriterOption func(*Rewriter)

// WithLogger sets the logger used to report per-pass statistics.
func WithLogger(logger interfaces.Logger) RewriterOption {
	return func(r *Rewriter) {
		if logger == nil {
			logger = logging.NoOp()
		}
		r.logger = logger
	}
}

// WithIDSource replaces the default random id strategy used in label-after mode.
func WithIDSource(source IDSource) RewriterOption {
	return func(r *Rewriter) {
		if source != nil {
			r.ids = source
		}
	}
}

// NewRewriter builds a rewriter for the supplied options.
func NewRewriter(opts Options, options ...RewriterOption) *Rewriter {
	r := &Rewriter{
		opts:   opts,
		prefix: resolvePrefix(opts),
		ids:    RandomIDs(),
		logger: logging.NoOp(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Options returns the configuration the rewriter was built with.
func (r *Rewriter) Options() Options {
	return r.opts
}

// Register installs the rewriter on the ruler right after inline tokenization.
func (r *Rewriter) Register(ruler *token.Ruler) error {
	return ruler.After(AfterRule, RuleName, r.Rule())
}

// Rule adapts Rewrite to the core rule signature. The summary is stored under
// EnvSummaryKey and the rule never asks for the core to run again.
func (r *Rewriter) Rule() token.RuleFunc {
	return func(state *token.State) bool {
		if state == nil {
			return false
		}
		summary := r.Rewrite(state.Tokens)
		if state.Env != nil {
			state.Env[EnvSummaryKey] = summary
		}
		r.logger.Debug("tasklists.rewrite.completed",
			"total", summary.Total,
			"checked", summary.Checked,
		)
		return false
	}
}

// Rewrite scans tokens for task-list items and rewrites them in place.
func (r *Rewriter) Rewrite(tokens []*token.Token) interfaces.TaskSummary {
	var summary interfaces.TaskSummary
	var ids IDGenerator

	nextID := func() string {
		if ids == nil {
			ids = r.ids(r.prefix)
		}
		return ids.NextID()
	}

	for i := 2; i < len(tokens); i++ {
		if !isTodoItem(tokens, i) {
			continue
		}
		inline := tokens[i]
		if len(inline.Children) == 0 {
			continue
		}

		checked := isChecked(inline.Content)
		r.todoify(inline, checked, nextID)

		summary.Total++
		if checked {
			summary.Checked++
		}

		tokens[i-2].AttrSet("class", r.itemClass())
		if parent := token.FindParent(tokens, i-2); parent != nil {
			parent.AttrSet("class", classContainer)
		}
	}

	return summary
}

// SummaryFromState returns the summary recorded by the last pass over state.
func SummaryFromState(state *token.State) (interfaces.TaskSummary, bool) {
	if state == nil || state.Env == nil {
		return interfaces.TaskSummary{}, false
	}
	summary, ok := state.Env[EnvSummaryKey].(interfaces.TaskSummary)
	return summary, ok
}

func (r *Rewriter) todoify(inline *token.Token, checked bool, nextID func() string) {
	checkbox := token.NewHTMLInline(r.checkboxMarkup(inline, checked))
	inline.Children = append([]*token.Token{checkbox}, inline.Children...)

	trimMarker(inline.Children[1])
	inline.Content = inline.Content[markerWidth:]

	if !r.opts.Label {
		return
	}

	if r.opts.LabelAfter {
		inline.Children = inline.Children[:len(inline.Children)-1]
		id := nextID()
		checkbox.Content = strings.TrimSuffix(checkbox.Content, ">") + ` id="` + id + `">`
		inline.Children = append(inline.Children, afterLabel(inline.Content, id))
		return
	}

	inline.Children = append([]*token.Token{token.NewHTMLInline("<label>")}, inline.Children...)
	inline.Children = append(inline.Children, token.NewHTMLInline("</label>"))
}

// checkboxMarkup keeps the historical attribute spacing so the markup stays
// byte-compatible with existing renderings.
func (r *Rewriter) checkboxMarkup(inline *token.Token, checked bool) string {
	var b strings.Builder
	b.WriteString(`<input class="task-list-item-checkbox"`)
	if checked {
		b.WriteString(` checked=""`)
	}
	b.WriteByte(' ')
	if !r.opts.Enabled {
		b.WriteString(` disabled=""  `)
	}
	b.WriteString(`type="checkbox" `)
	if r.opts.LineNumber {
		b.WriteString(`data-line="`)
		if line, ok := inline.Line(); ok {
			b.WriteString(strconv.Itoa(line))
		}
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func (r *Rewriter) itemClass() string {
	if r.opts.Enabled {
		return classItemEnabled
	}
	return classItem
}

func afterLabel(content, id string) *token.Token {
	escaped := string(util.EscapeHTML([]byte(content)))
	return token.NewHTMLInline(`<label class="task-list-item-label" for="` + id + `">` + escaped + `</label>`)
}

// trimMarker drops the brackets and one following space from the text run
// that follows the checkbox. Runs that do not carry the brackets are left alone.
func trimMarker(child *token.Token) {
	if child == nil || child.Type != token.TypeText {
		return
	}
	if !hasBrackets(child.Content) {
		return
	}
	child.Content = strings.TrimPrefix(child.Content[bracketWidth:], " ")
}

func isTodoItem(tokens []*token.Token, index int) bool {
	inline, paragraph, item := tokens[index], tokens[index-1], tokens[index-2]
	if inline == nil || paragraph == nil || item == nil {
		return false
	}
	return inline.Type == token.TypeInline &&
		paragraph.Type == token.TypeParagraphOpen &&
		item.Type == token.TypeListItemOpen &&
		hasMarker(inline.Content)
}

// hasMarker reports whether content starts with one of the exact markers.
// Leading whitespace is already stripped by the tokenizer.
func hasMarker(content string) bool {
	return strings.HasPrefix(content, markerUnchecked) ||
		strings.HasPrefix(content, markerChecked) ||
		strings.HasPrefix(content, markerCheckedUpper)
}

func hasBrackets(content string) bool {
	return strings.HasPrefix(content, markerUnchecked[:bracketWidth]) ||
		strings.HasPrefix(content, markerChecked[:bracketWidth]) ||
		strings.HasPrefix(content, markerCheckedUpper[:bracketWidth])
}

func isChecked(content string) bool {
	return strings.HasPrefix(content, markerChecked) || strings.HasPrefix(content, markerCheckedUpper)
}
