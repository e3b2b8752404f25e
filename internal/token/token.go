// Package token models the flat, leveled token sequence shared by the markdown
// tokenizer, the core rules that rewrite it, and the HTML renderer.
package token

// Nesting values describe how a token affects the open element stack.
const (
	Opening     = 1
	SelfClosing = 0
	Closing     = -1
)

// Token types emitted by the tokenizer and rewritten by core rules.
const (
	TypeInline        = "inline"
	TypeText          = "text"
	TypeHTMLInline    = "html_inline"
	TypeHTMLBlock     = "html_block"
	TypeParagraphOpen = "paragraph_open"
	TypeListItemOpen  = "list_item_open"
	TypeSoftbreak     = "softbreak"
	TypeHardbreak     = "hardbreak"
)

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// Token is one element of a parsed document. Block structure is encoded by
// Nesting and Level rather than parent pointers: every opening token at level L
// has a matching closing token at level L, and everything between them sits at
// level L+1 or deeper.
type Token struct {
	Type     string
	Tag      string
	Attrs    []Attr
	Map      *[2]int
	Nesting  int
	Level    int
	Children []*Token
	Content  string
	Markup   string
	Info     string
	Block    bool
	Hidden   bool
}

// New returns a token with the supplied type, tag and nesting.
func New(typ, tag string, nesting int) *Token {
	return &Token{
		Type:    typ,
		Tag:     tag,
		Nesting: nesting,
	}
}

// NewHTMLInline returns a literal inline token the renderer emits verbatim.
func NewHTMLInline(content string) *Token {
	tok := New(TypeHTMLInline, "", SelfClosing)
	tok.Content = content
	return tok
}

// AttrIndex returns the position of the named attribute or -1.
func (t *Token) AttrIndex(name string) int {
	for i, attr := range t.Attrs {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

// AttrGet returns the attribute value and whether it was present.
func (t *Token) AttrGet(name string) (string, bool) {
	idx := t.AttrIndex(name)
	if idx < 0 {
		return "", false
	}
	return t.Attrs[idx].Value, true
}

// AttrPush appends an attribute without checking for duplicates.
func (t *Token) AttrPush(name, value string) {
	t.Attrs = append(t.Attrs, Attr{Name: name, Value: value})
}

// AttrSet overwrites the named attribute in place, appending it when missing.
// Attribute names stay unique per token.
func (t *Token) AttrSet(name, value string) {
	if idx := t.AttrIndex(name); idx >= 0 {
		t.Attrs[idx].Value = value
		return
	}
	t.AttrPush(name, value)
}

// AttrJoin appends value to an existing attribute separated by a space.
func (t *Token) AttrJoin(name, value string) {
	if idx := t.AttrIndex(name); idx >= 0 {
		t.Attrs[idx].Value += " " + value
		return
	}
	t.AttrPush(name, value)
}

// Line returns the zero-based source line the token starts at.
func (t *Token) Line() (int, bool) {
	if t == nil || t.Map == nil {
		return 0, false
	}
	return t.Map[0], true
}

// FindParent scans backward from index for the closest token one level up.
// It returns nil when the sequence holds no such token.
func FindParent(tokens []*Token, index int) *Token {
	if index < 0 || index >= len(tokens) || tokens[index] == nil {
		return nil
	}
	target := tokens[index].Level - 1
	for i := index - 1; i >= 0; i-- {
		if tokens[i] != nil && tokens[i].Level == target {
			return tokens[i]
		}
	}
	return nil
}
