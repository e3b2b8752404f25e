package markdowncmd

import (
	"testing"

	command "github.com/goliatone/go-command"
)

func TestRenderFileCommandValidate(t *testing.T) {
	if err := (RenderFileCommand{Path: "todo.md", Output: "out/todo.html"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	if err := (RenderFileCommand{Path: "  ", Output: "out/todo.html"}).Validate(); err == nil {
		t.Fatal("expected blank path to fail validation")
	}
	if err := (RenderFileCommand{Path: "todo.md"}).Validate(); err == nil {
		t.Fatal("expected missing output to fail validation")
	}
}

func TestRenderDirectoryCommandValidate(t *testing.T) {
	if err := (RenderDirectoryCommand{Directory: ".", OutputDir: "public"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	if err := (RenderDirectoryCommand{OutputDir: "public"}).Validate(); err == nil {
		t.Fatal("expected missing directory to fail validation")
	}
	if err := (RenderDirectoryCommand{Directory: "."}).Validate(); err == nil {
		t.Fatal("expected missing output directory to fail validation")
	}
}

func TestMessageTypes(t *testing.T) {
	if got := command.GetMessageType(RenderFileCommand{}); got != "tasklists.markdown.render_file" {
		t.Fatalf("expected render_file type, got %s", got)
	}
	if got := command.GetMessageType(RenderDirectoryCommand{}); got != "tasklists.markdown.render_directory" {
		t.Fatalf("expected render_directory type, got %s", got)
	}
}
