package tasklists_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-tasklists"
)

func TestRender(t *testing.T) {
	html, err := tasklists.Render([]byte("- [ ] foo\n- [x] bar\n"), tasklists.TaskListOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	expected := "<ul class=\"contains-task-list\">\n" +
		"<li class=\"task-list-item\"><input class=\"task-list-item-checkbox\"  disabled=\"\"  type=\"checkbox\" >foo</li>\n" +
		"<li class=\"task-list-item\"><input class=\"task-list-item-checkbox\" checked=\"\"  disabled=\"\"  type=\"checkbox\" >bar</li>\n" +
		"</ul>\n"
	if string(html) != expected {
		t.Fatalf("expected\n%q\ngot\n%q", expected, string(html))
	}
}

func TestRenderWithLabel(t *testing.T) {
	html, err := tasklists.Render([]byte("- [x] ship it\n"), tasklists.TaskListOptions{Enabled: true, Label: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	expected := `<li class="task-list-item enabled"><label><input class="task-list-item-checkbox" checked="" type="checkbox" >ship it</label></li>`
	if !strings.Contains(string(html), expected) {
		t.Fatalf("expected %q in %q", expected, string(html))
	}
}

func TestRenderWithSummary(t *testing.T) {
	result, err := tasklists.RenderWithSummary([]byte("- [ ] a\n- [x] b\n- [X] c\n- plain\n"), tasklists.TaskListOptions{})
	if err != nil {
		t.Fatalf("RenderWithSummary: %v", err)
	}
	if result.Tasks.Total != 3 || result.Tasks.Checked != 2 || result.Tasks.Open() != 1 {
		t.Fatalf("expected 3 tasks with 2 checked, got %+v", result.Tasks)
	}
	if !strings.Contains(string(result.HTML), "<li>plain</li>") {
		t.Fatalf("expected plain item untouched, got %q", string(result.HTML))
	}
}

func TestRewrite(t *testing.T) {
	text := &tasklists.Token{Type: "text", Content: "[x] done"}
	tokens := []*tasklists.Token{
		{Type: "bullet_list_open", Tag: "ul", Nesting: 1, Level: 0, Block: true},
		{Type: "list_item_open", Tag: "li", Nesting: 1, Level: 1, Block: true},
		{Type: "paragraph_open", Tag: "p", Nesting: 1, Level: 2, Block: true, Hidden: true},
		{Type: "inline", Level: 3, Content: "[x] done", Children: []*tasklists.Token{text}},
		{Type: "paragraph_close", Tag: "p", Nesting: -1, Level: 2, Block: true, Hidden: true},
		{Type: "list_item_close", Tag: "li", Nesting: -1, Level: 1, Block: true},
		{Type: "bullet_list_close", Tag: "ul", Nesting: -1, Level: 0, Block: true},
	}

	summary := tasklists.Rewrite(tokens, tasklists.TaskListOptions{})
	if summary.Total != 1 || summary.Checked != 1 {
		t.Fatalf("expected one checked task, got %+v", summary)
	}
	if class, _ := tokens[0].AttrGet("class"); class != "contains-task-list" {
		t.Fatalf("expected list class, got %q", class)
	}
	if class, _ := tokens[1].AttrGet("class"); class != "task-list-item" {
		t.Fatalf("expected item class, got %q", class)
	}
	children := tokens[3].Children
	if len(children) != 2 || children[0].Type != "html_inline" {
		t.Fatalf("expected checkbox prepended, got %+v", children)
	}
	if text.Content != "done" {
		t.Fatalf("expected marker trimmed, got %q", text.Content)
	}
}

func TestRewriteIgnoresNonTaskLists(t *testing.T) {
	tokens := []*tasklists.Token{
		{Type: "paragraph_open", Tag: "p", Nesting: 1},
		{Type: "inline", Content: "[ ] not a list", Children: []*tasklists.Token{{Type: "text", Content: "[ ] not a list"}}},
		{Type: "paragraph_close", Tag: "p", Nesting: -1},
	}

	if summary := tasklists.Rewrite(tokens, tasklists.TaskListOptions{}); summary.Total != 0 {
		t.Fatalf("expected no tasks, got %+v", summary)
	}
	if tokens[1].Children[0].Content != "[ ] not a list" {
		t.Fatalf("expected content untouched, got %q", tokens[1].Children[0].Content)
	}
}

func TestNewModule(t *testing.T) {
	cfg := tasklists.DefaultConfig()
	cfg.Features.Markdown = true
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = filepath.Join("internal", "markdown", "testdata", "site")
	cfg.TaskLists.Label = true

	module, err := tasklists.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if module.Commands() != nil {
		t.Fatal("expected no command handlers when commands are disabled")
	}

	doc, err := module.Markdown().Load(context.Background(), "todo.md", tasklists.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Tasks.Total != 3 {
		t.Fatalf("expected 3 tasks, got %+v", doc.Tasks)
	}
	if !strings.Contains(string(doc.BodyHTML), "<label>") {
		t.Fatalf("expected label wrapping from config, got %q", string(doc.BodyHTML))
	}

	html, err := module.Parser().Parse([]byte("* [ ] inline\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(string(html), "<label>") {
		t.Fatalf("expected parser to carry config defaults, got %q", string(html))
	}
}

func TestNewModuleRejectsInvalidConfig(t *testing.T) {
	cfg := tasklists.DefaultConfig()
	cfg.TaskLists.IDStrategy = "counter"

	if _, err := tasklists.New(cfg); !errors.Is(err, tasklists.ErrTaskListsIDStrategyUnknown) {
		t.Fatalf("expected ErrTaskListsIDStrategyUnknown, got %v", err)
	}

	cfg = tasklists.DefaultConfig()
	cfg.Markdown.Enabled = true
	if _, err := tasklists.New(cfg); !errors.Is(err, tasklists.ErrMarkdownFeatureRequired) {
		t.Fatalf("expected ErrMarkdownFeatureRequired, got %v", err)
	}
}

func TestNilModule(t *testing.T) {
	var module *tasklists.Module
	if module.Markdown() != nil || module.Parser() != nil || module.Commands() != nil {
		t.Fatal("expected nil module accessors to return nil")
	}
}
