package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-tasklists/cmd/markdown/internal/bootstrap"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runPreview(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown preview: %v", err)
	}
}

func runPreview(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markdown-preview", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	filePath := fs.String("file", "", "Markdown file to preview (relative to the content root)")
	extensions := fs.String("extensions", "", "Comma separated parser extensions (defaults to gfm,linkify,tasklist)")
	safe := fs.Bool("safe", false, "Escape raw HTML and drop dangerous URLs")
	logLevel := fs.String("log-level", "", "Enable console logging at the given level")
	taskLists := bootstrap.RegisterTaskListFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" {
		return fmt.Errorf("-file is required")
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Recursive:  true,
		Extensions: bootstrap.SplitList(*extensions),
		SafeMode:   *safe,
		TaskLists:  *taskLists,
		LogLevel:   *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Service == nil {
		return fmt.Errorf("markdown service not configured; ensure Features.Markdown is enabled")
	}

	doc, err := module.Service.Load(context.Background(), *filePath, interfaces.LoadOptions{})
	if err != nil {
		return fmt.Errorf("load markdown document: %w", err)
	}

	fmt.Fprintf(out, "Path: %s\nChecksum: %x\n", doc.FilePath, doc.Checksum)
	fmt.Fprintf(out, "Tasks: %d total, %d checked, %d open\n\n", doc.Tasks.Total, doc.Tasks.Checked, doc.Tasks.Open())

	if len(doc.FrontMatter.Raw) > 0 {
		frontmatter, err := json.MarshalIndent(doc.FrontMatter.Raw, "", "  ")
		if err == nil {
			fmt.Fprintf(out, "Frontmatter:\n%s\n\n", frontmatter)
		}
	}

	fmt.Fprintf(out, "Rendered HTML:\n%s", string(doc.BodyHTML))
	return nil
}
