package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-tasklists/internal/token"
)

// tokenizer flattens a goldmark AST into the leveled token sequence consumed by
// core rules and the HTML renderer. Block tokens are produced first; inline
// children are attached in a second pass so rules can run between the two.
type tokenizer struct {
	source     []byte
	lineStarts []int
	safe       bool
	fallback   renderer.Renderer

	tokens  []*token.Token
	level   int
	inlines map[*token.Token]ast.Node
}

func newTokenizer(source []byte, safe bool, fallback renderer.Renderer) *tokenizer {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return &tokenizer{
		source:     source,
		lineStarts: starts,
		safe:       safe,
		fallback:   fallback,
		inlines:    map[*token.Token]ast.Node{},
	}
}

// Blocks converts the document's block structure. Inline tokens are left
// without children until Inline runs.
func (t *tokenizer) Blocks(doc ast.Node) []*token.Token {
	t.tokens = nil
	t.level = 0
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		t.block(child)
	}
	return t.tokens
}

// Inline fills the children of every inline token produced by Blocks.
func (t *tokenizer) Inline(tokens []*token.Token) {
	for _, tok := range tokens {
		if tok == nil || tok.Type != token.TypeInline {
			continue
		}
		node, ok := t.inlines[tok]
		if !ok {
			continue
		}
		in := &inliner{t: t}
		in.walk(node)
		tok.Children = in.out
	}
}

func (t *tokenizer) block(n ast.Node) {
	switch node := n.(type) {
	case *ast.Paragraph:
		t.paragraph(node, false)
	case *ast.TextBlock:
		t.paragraph(node, true)
	case *ast.Heading:
		tag := "h" + strconv.Itoa(node.Level)
		open := t.open("heading_open", tag, node)
		open.Markup = strings.Repeat("#", node.Level)
		copyAttributes(open, node)
		t.inline(node)
		t.close("heading_close", tag).Markup = open.Markup
	case *ast.List:
		typ, tag := "bullet_list", "ul"
		if node.IsOrdered() {
			typ, tag = "ordered_list", "ol"
		}
		open := t.open(typ+"_open", tag, node)
		open.Markup = string(node.Marker)
		if node.IsOrdered() && node.Start != 1 {
			open.AttrSet("start", strconv.Itoa(node.Start))
		}
		t.children(node)
		t.close(typ+"_close", tag).Markup = open.Markup
	case *ast.ListItem:
		marker := ""
		if list, ok := node.Parent().(*ast.List); ok {
			marker = string(list.Marker)
		}
		t.open("list_item_open", "li", node).Markup = marker
		t.children(node)
		t.close("list_item_close", "li").Markup = marker
	case *ast.Blockquote:
		t.open("blockquote_open", "blockquote", node).Markup = ">"
		t.children(node)
		t.close("blockquote_close", "blockquote").Markup = ">"
	case *ast.ThematicBreak:
		t.self("hr", "hr", node).Markup = "---"
	case *ast.FencedCodeBlock:
		tok := t.self("fence", "code", node)
		tok.Markup = "```"
		if node.Info != nil {
			tok.Info = strings.TrimSpace(string(node.Info.Segment.Value(t.source)))
		}
		tok.Content = t.joinLines(node)
	case *ast.CodeBlock:
		tok := t.self("code_block", "code", node)
		tok.Content = t.joinLines(node)
	case *ast.HTMLBlock:
		t.htmlBlock(node)
	case *extast.Table:
		t.table(node)
	default:
		tok := t.self(token.TypeHTMLBlock, "", n)
		tok.Content = t.renderFallback(n)
	}
}

func (t *tokenizer) children(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		t.block(child)
	}
}

func (t *tokenizer) paragraph(n ast.Node, hidden bool) {
	t.open(token.TypeParagraphOpen, "p", n).Hidden = hidden
	t.inline(n)
	t.close("paragraph_close", "p").Hidden = hidden
}

func (t *tokenizer) htmlBlock(node *ast.HTMLBlock) {
	content := t.joinLines(node)
	if node.HasClosure() {
		content += string(node.ClosureLine.Value(t.source))
	}
	if !t.safe {
		t.self(token.TypeHTMLBlock, "", node).Content = content
		return
	}

	t.open(token.TypeParagraphOpen, "p", node)
	inline := t.push(token.TypeInline, "", token.SelfClosing)
	inline.Content = strings.TrimSpace(content)
	inline.Map = t.lineMap(node)
	text := token.New(token.TypeText, "", token.SelfClosing)
	text.Content = inline.Content
	inline.Children = []*token.Token{text}
	t.close("paragraph_close", "p")
}

func (t *tokenizer) table(node *extast.Table) {
	t.open("table_open", "table", node)
	bodyOpen := false
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			t.open("thead_open", "thead", row)
			t.row(row, "th")
			t.close("thead_close", "thead")
		case *extast.TableRow:
			if !bodyOpen {
				t.open("tbody_open", "tbody", row)
				bodyOpen = true
			}
			t.row(row, "td")
		}
	}
	if bodyOpen {
		t.close("tbody_close", "tbody")
	}
	t.close("table_close", "table")
}

func (t *tokenizer) row(row ast.Node, cellTag string) {
	t.open("tr_open", "tr", row)
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*extast.TableCell)
		if !ok {
			continue
		}
		open := t.open(cellTag+"_open", cellTag, cell)
		if cell.Alignment != extast.AlignNone {
			open.AttrSet("style", "text-align:"+cell.Alignment.String())
		}
		t.inline(cell)
		t.close(cellTag+"_close", cellTag)
	}
	t.close("tr_close", "tr")
}

// inline emits the inline token for a leaf block; its children come later.
func (t *tokenizer) inline(n ast.Node) {
	tok := t.push(token.TypeInline, "", token.SelfClosing)
	tok.Content = t.inlineContent(n)
	tok.Map = t.lineMap(n)
	t.inlines[tok] = n
}

func (t *tokenizer) open(typ, tag string, n ast.Node) *token.Token {
	tok := t.push(typ, tag, token.Opening)
	tok.Map = t.lineMap(n)
	t.level++
	return tok
}

func (t *tokenizer) close(typ, tag string) *token.Token {
	t.level--
	return t.push(typ, tag, token.Closing)
}

func (t *tokenizer) self(typ, tag string, n ast.Node) *token.Token {
	tok := t.push(typ, tag, token.SelfClosing)
	tok.Map = t.lineMap(n)
	return tok
}

func (t *tokenizer) push(typ, tag string, nesting int) *token.Token {
	tok := token.New(typ, tag, nesting)
	tok.Level = t.level
	tok.Block = true
	t.tokens = append(t.tokens, tok)
	return tok
}

func (t *tokenizer) joinLines(n ast.Node) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(t.source))
	}
	return buf.String()
}

// inlineContent is the raw source of a leaf block, trimmed. Blocks without
// recorded lines fall back to their plain text.
func (t *tokenizer) inlineContent(n ast.Node) string {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return strings.TrimSpace(t.joinLines(n))
	}
	return strings.TrimSpace(plainText(n, t.source))
}

// lineMap returns the zero-based [start, end) line range covered by n.
func (t *tokenizer) lineMap(n ast.Node) *[2]int {
	start, ok := t.firstOffset(n)
	if !ok {
		return nil
	}
	stop, _ := t.lastOffset(n)
	if stop <= start {
		stop = start + 1
	}
	return &[2]int{t.lineOf(start), t.lineOf(stop-1) + 1}
}

func (t *tokenizer) firstOffset(n ast.Node) (int, bool) {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() != ast.TypeBlock {
			continue
		}
		if offset, ok := t.firstOffset(child); ok {
			return offset, true
		}
	}
	return 0, false
}

func (t *tokenizer) lastOffset(n ast.Node) (int, bool) {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1).Stop, true
		}
	}
	for child := n.LastChild(); child != nil; child = child.PreviousSibling() {
		if child.Type() != ast.TypeBlock {
			continue
		}
		if offset, ok := t.lastOffset(child); ok {
			return offset, true
		}
	}
	return 0, false
}

func (t *tokenizer) lineOf(offset int) int {
	return sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	}) - 1
}

// renderFallback renders node kinds the tokenizer has no token shape for
// (footnotes, definition lists, ...) with goldmark's own HTML renderer.
func (t *tokenizer) renderFallback(n ast.Node) string {
	if t.fallback == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := t.fallback.Render(&buf, t.source, n); err != nil {
		return ""
	}
	return buf.String()
}

type inliner struct {
	t     *tokenizer
	out   []*token.Token
	level int
}

func (in *inliner) walk(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		in.node(child)
	}
}

func (in *inliner) node(n ast.Node) {
	source := in.t.source
	switch node := n.(type) {
	case *ast.Text:
		value := node.Segment.Value(source)
		if node.IsRaw() {
			in.text(string(value))
		} else {
			in.text(unescape(value))
		}
		switch {
		case node.HardLineBreak():
			in.push(token.TypeHardbreak, "br", token.SelfClosing)
		case node.SoftLineBreak():
			in.push(token.TypeSoftbreak, "br", token.SelfClosing)
		}
	case *ast.String:
		in.text(string(node.Value))
	case *ast.CodeSpan:
		tok := in.push("code_inline", "code", token.SelfClosing)
		tok.Markup = "`"
		tok.Content = codeSpanContent(node, source)
	case *ast.Emphasis:
		typ, tag, markup := "em", "em", "*"
		if node.Level >= 2 {
			typ, tag, markup = "strong", "strong", "**"
		}
		in.open(typ+"_open", tag).Markup = markup
		in.walk(node)
		in.close(typ+"_close", tag).Markup = markup
	case *extast.Strikethrough:
		in.open("s_open", "s").Markup = "~~"
		in.walk(node)
		in.close("s_close", "s").Markup = "~~"
	case *ast.Link:
		open := in.open("link_open", "a")
		open.AttrSet("href", in.href(node.Destination, true))
		if len(node.Title) > 0 {
			open.AttrSet("title", unescape(node.Title))
		}
		in.walk(node)
		in.close("link_close", "a")
	case *ast.AutoLink:
		url := node.URL(source)
		if node.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
			url = append([]byte("mailto:"), url...)
		}
		open := in.open("link_open", "a")
		open.AttrSet("href", in.href(url, false))
		open.Markup = "autolink"
		open.Info = "auto"
		in.text(string(node.Label(source)))
		closeTok := in.close("link_close", "a")
		closeTok.Markup = "autolink"
		closeTok.Info = "auto"
	case *ast.Image:
		tok := in.push("image", "img", token.SelfClosing)
		tok.AttrSet("src", in.href(node.Destination, true))
		alt := plainText(node, source)
		tok.AttrSet("alt", alt)
		if len(node.Title) > 0 {
			tok.AttrSet("title", unescape(node.Title))
		}
		tok.Content = alt
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			segment := node.Segments.At(i)
			buf.Write(segment.Value(source))
		}
		if in.t.safe {
			in.text(buf.String())
			return
		}
		in.push(token.TypeHTMLInline, "", token.SelfClosing).Content = buf.String()
	default:
		in.push(token.TypeHTMLInline, "", token.SelfClosing).Content = in.t.renderFallback(n)
	}
}

// text appends to the previous text run when possible, so a marker split
// across several goldmark text nodes ends up in a single token.
func (in *inliner) text(content string) {
	if content == "" {
		return
	}
	if last := len(in.out) - 1; last >= 0 && in.out[last].Type == token.TypeText {
		in.out[last].Content += content
		return
	}
	in.push(token.TypeText, "", token.SelfClosing).Content = content
}

func (in *inliner) href(destination []byte, resolveReferences bool) string {
	if in.t.safe && html.IsDangerousURL(destination) {
		return ""
	}
	return string(util.URLEscape(destination, resolveReferences))
}

func (in *inliner) open(typ, tag string) *token.Token {
	tok := in.push(typ, tag, token.Opening)
	in.level++
	return tok
}

func (in *inliner) close(typ, tag string) *token.Token {
	in.level--
	return in.push(typ, tag, token.Closing)
}

func (in *inliner) push(typ, tag string, nesting int) *token.Token {
	tok := token.New(typ, tag, nesting)
	tok.Level = in.level
	in.out = append(in.out, tok)
	return tok
}

func unescape(value []byte) string {
	resolved := util.ResolveNumericReferences(util.ResolveEntityNames(value))
	return string(util.UnescapePunctuations(resolved))
}

func codeSpanContent(node *ast.CodeSpan, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		text, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		value := text.Segment.Value(source)
		if bytes.HasSuffix(value, []byte("\n")) {
			buf.Write(value[:len(value)-1])
			buf.WriteByte(' ')
			continue
		}
		buf.Write(value)
	}
	return buf.String()
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := child.(type) {
		case *ast.Text:
			buf.WriteString(unescape(node.Segment.Value(source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func copyAttributes(tok *token.Token, n ast.Node) {
	for _, attr := range n.Attributes() {
		switch value := attr.Value.(type) {
		case []byte:
			tok.AttrSet(string(attr.Name), string(value))
		case string:
			tok.AttrSet(string(attr.Name), value)
		default:
			tok.AttrSet(string(attr.Name), fmt.Sprint(value))
		}
	}
}
