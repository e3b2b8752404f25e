package markdown

import (
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-tasklists/internal/token"
)

// RenderRule renders the token at idx. Rules override the generic tag output
// for a token type.
type RenderRule func(tokens []*token.Token, idx int, r *HTMLRenderer) string

// HTMLRenderer turns a token sequence into HTML. Tokens without a dedicated
// rule are rendered as plain open/close tags with their attributes.
type HTMLRenderer struct {
	// Breaks renders soft line breaks as <br>.
	Breaks bool
	// XHTML closes void elements with " /".
	XHTML bool

	rules map[string]RenderRule
}

// NewHTMLRenderer returns a renderer with the default rule set.
func NewHTMLRenderer() *HTMLRenderer {
	r := &HTMLRenderer{rules: map[string]RenderRule{}}
	r.rules["text"] = renderText
	r.rules[token.TypeHTMLInline] = renderRaw
	r.rules[token.TypeHTMLBlock] = renderRaw
	r.rules["code_inline"] = renderCodeInline
	r.rules["code_block"] = renderCodeBlock
	r.rules["fence"] = renderFence
	r.rules[token.TypeHardbreak] = renderHardbreak
	r.rules[token.TypeSoftbreak] = renderSoftbreak
	return r
}

// SetRule overrides the rule for typ. A nil rule restores tag rendering.
func (r *HTMLRenderer) SetRule(typ string, rule RenderRule) {
	if rule == nil {
		delete(r.rules, typ)
		return
	}
	r.rules[typ] = rule
}

// Render renders a block-level token sequence.
func (r *HTMLRenderer) Render(tokens []*token.Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if tok == nil {
			continue
		}
		if tok.Type == token.TypeInline {
			b.WriteString(r.RenderInline(tok.Children))
			continue
		}
		b.WriteString(r.renderOne(tokens, i))
	}
	return b.String()
}

// RenderInline renders the children of an inline token.
func (r *HTMLRenderer) RenderInline(tokens []*token.Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if tok == nil {
			continue
		}
		b.WriteString(r.renderOne(tokens, i))
	}
	return b.String()
}

func (r *HTMLRenderer) renderOne(tokens []*token.Token, idx int) string {
	if rule, ok := r.rules[tokens[idx].Type]; ok {
		return rule(tokens, idx, r)
	}
	return r.RenderToken(tokens, idx)
}

// RenderToken emits the opening, closing or void tag for tokens[idx]. Block
// tags get a trailing newline unless they wrap an inline token, and hidden
// tokens render nothing.
func (r *HTMLRenderer) RenderToken(tokens []*token.Token, idx int) string {
	tok := tokens[idx]
	if tok.Hidden {
		return ""
	}

	var b strings.Builder
	if tok.Block && tok.Nesting != token.Closing && idx > 0 && tokens[idx-1] != nil && tokens[idx-1].Hidden {
		b.WriteByte('\n')
	}
	if tok.Nesting == token.Closing {
		b.WriteString("</")
	} else {
		b.WriteByte('<')
	}
	b.WriteString(tok.Tag)
	b.WriteString(RenderAttrs(tok))
	if tok.Nesting == token.SelfClosing && r.XHTML {
		b.WriteString(" /")
	}

	needNewline := false
	if tok.Block {
		needNewline = true
		if tok.Nesting == token.Opening && idx+1 < len(tokens) && tokens[idx+1] != nil {
			next := tokens[idx+1]
			switch {
			case next.Type == token.TypeInline || next.Hidden:
				needNewline = false
			case next.Nesting == token.Closing && next.Tag == tok.Tag:
				needNewline = false
			}
		}
	}
	if needNewline {
		b.WriteString(">\n")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

// RenderAttrs renders the token attributes as ` name="value"` pairs.
func RenderAttrs(tok *token.Token) string {
	if tok == nil || len(tok.Attrs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range tok.Attrs {
		b.WriteByte(' ')
		b.WriteString(EscapeHTML(attr.Name))
		b.WriteString(`="`)
		b.WriteString(EscapeHTML(attr.Value))
		b.WriteByte('"')
	}
	return b.String()
}

// EscapeHTML escapes text and attribute values with goldmark's escaper
// (& < > and "). Single quotes are left as is.
func EscapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

func renderText(tokens []*token.Token, idx int, _ *HTMLRenderer) string {
	return EscapeHTML(tokens[idx].Content)
}

func renderRaw(tokens []*token.Token, idx int, _ *HTMLRenderer) string {
	return tokens[idx].Content
}

func renderCodeInline(tokens []*token.Token, idx int, _ *HTMLRenderer) string {
	tok := tokens[idx]
	return "<code" + RenderAttrs(tok) + ">" + EscapeHTML(tok.Content) + "</code>"
}

func renderCodeBlock(tokens []*token.Token, idx int, _ *HTMLRenderer) string {
	tok := tokens[idx]
	return "<pre" + RenderAttrs(tok) + "><code>" + EscapeHTML(tok.Content) + "</code></pre>\n"
}

func renderFence(tokens []*token.Token, idx int, _ *HTMLRenderer) string {
	tok := tokens[idx]
	attrs := ""
	if fields := strings.Fields(tok.Info); len(fields) > 0 {
		attrs = ` class="language-` + EscapeHTML(fields[0]) + `"`
	}
	return "<pre><code" + attrs + ">" + EscapeHTML(tok.Content) + "</code></pre>\n"
}

func renderHardbreak(_ []*token.Token, _ int, r *HTMLRenderer) string {
	if r.XHTML {
		return "<br />\n"
	}
	return "<br>\n"
}

func renderSoftbreak(tokens []*token.Token, idx int, r *HTMLRenderer) string {
	if r.Breaks {
		return renderHardbreak(tokens, idx, r)
	}
	return "\n"
}
