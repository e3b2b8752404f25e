package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-tasklists/cmd/markdown/internal/bootstrap"
	markdowncmd "github.com/goliatone/go-tasklists/internal/commands/markdown"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runRender(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown render: %v", err)
	}
}

func runRender(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markdown-render", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	directory := fs.String("directory", ".", "Directory to render, relative to the content root")
	outputDir := fs.String("output-dir", "dist", "Directory receiving the rendered HTML files")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files (supports **)")
	recursive := fs.Bool("recursive", true, "Descend into sub-directories")
	extensions := fs.String("extensions", "", "Comma separated parser extensions (defaults to gfm,linkify,tasklist)")
	safe := fs.Bool("safe", false, "Escape raw HTML and drop dangerous URLs")
	retries := fs.Int("retries", 0, "Retry the render this many times on failure")
	timeout := fs.Duration("timeout", 0, "Abort the render after this duration (0 disables)")
	logLevel := fs.String("log-level", "info", "Console log level")
	taskLists := bootstrap.RegisterTaskListFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  *recursive,
		Extensions: bootstrap.SplitList(*extensions),
		SafeMode:   *safe,
		TaskLists:  *taskLists,
		LogLevel:   *logLevel,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Handlers == nil || module.Handlers.RenderDirectory == nil {
		return fmt.Errorf("render commands not configured; ensure Features.Commands is enabled")
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	sub := dispatcher.SubscribeCommand(module.Handlers.RenderDirectory, runner.WithMaxRetries(*retries))
	defer sub.Unsubscribe()

	started := time.Now()
	msg := markdowncmd.RenderDirectoryCommand{
		Directory: *directory,
		OutputDir: *outputDir,
		Pattern:   *pattern,
		Recursive: recursive,
	}
	if err := dispatcher.Dispatch(ctx, msg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Rendered %s into %s in %s\n", *directory, *outputDir, time.Since(started).Round(time.Millisecond))
	return nil
}
