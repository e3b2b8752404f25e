package markdown

import (
	"testing"

	"github.com/goliatone/go-tasklists/internal/token"
)

func block(typ, tag string, nesting, level int) *token.Token {
	tok := token.New(typ, tag, nesting)
	tok.Level = level
	tok.Block = true
	return tok
}

func TestHTMLRendererHiddenParagraphs(t *testing.T) {
	text := token.New(token.TypeText, "", token.SelfClosing)
	text.Content = "a < b"

	inline := block(token.TypeInline, "", token.SelfClosing, 3)
	inline.Children = []*token.Token{token.NewHTMLInline("<em>"), text, token.NewHTMLInline("</em>")}

	open := block(token.TypeParagraphOpen, "p", token.Opening, 2)
	open.Hidden = true
	closeTok := block("paragraph_close", "p", token.Closing, 2)
	closeTok.Hidden = true

	list := block("bullet_list_open", "ul", token.Opening, 0)
	list.AttrSet("class", `a"b`)

	tokens := []*token.Token{
		list,
		block(token.TypeListItemOpen, "li", token.Opening, 1),
		open,
		inline,
		closeTok,
		block("list_item_close", "li", token.Closing, 1),
		block("bullet_list_close", "ul", token.Closing, 0),
	}

	got := NewHTMLRenderer().Render(tokens)
	expected := "<ul class=\"a&quot;b\">\n<li><em>a &lt; b</em></li>\n</ul>\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestHTMLRendererBreaksAndVoidTags(t *testing.T) {
	tokens := []*token.Token{
		token.New(token.TypeSoftbreak, "br", token.SelfClosing),
		token.New(token.TypeHardbreak, "br", token.SelfClosing),
		block("hr", "hr", token.SelfClosing, 0),
	}

	r := NewHTMLRenderer()
	if got := r.RenderInline(tokens[:2]); got != "\n<br>\n" {
		t.Fatalf("expected soft then hard break, got %q", got)
	}

	r.Breaks = true
	r.XHTML = true
	if got := r.RenderInline(tokens[:2]); got != "<br />\n<br />\n" {
		t.Fatalf("expected breaks to render as br, got %q", got)
	}
	if got := r.Render(tokens[2:]); got != "<hr />\n" {
		t.Fatalf("expected xhtml hr, got %q", got)
	}
}

func TestHTMLRendererFenceAndOverrides(t *testing.T) {
	fence := block("fence", "code", token.SelfClosing, 0)
	fence.Info = "go extra"
	fence.Content = "x := 1 < 2\n"

	r := NewHTMLRenderer()
	expected := "<pre><code class=\"language-go\">x := 1 &lt; 2\n</code></pre>\n"
	if got := r.Render([]*token.Token{fence}); got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}

	r.SetRule("fence", func(tokens []*token.Token, idx int, _ *HTMLRenderer) string {
		return "[" + tokens[idx].Info + "]"
	})
	if got := r.Render([]*token.Token{fence}); got != "[go extra]" {
		t.Fatalf("expected custom rule output, got %q", got)
	}
}

func TestEscapeHTML(t *testing.T) {
	cases := map[string]string{
		"plain":           "plain",
		`a & b`:           "a &amp; b",
		`<tag attr="v">`:  "&lt;tag attr=&quot;v&quot;&gt;",
		"it's":            "it's",
		"&amp; stays raw": "&amp;amp; stays raw",
	}
	for in, want := range cases {
		if got := EscapeHTML(in); got != want {
			t.Fatalf("EscapeHTML(%q): expected %q, got %q", in, want, got)
		}
	}
}
