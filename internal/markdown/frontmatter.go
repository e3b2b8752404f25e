package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-tasklists/internal/util"
	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML and Tasks stay empty until the
// document is rendered.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title     string                       `yaml:"title"`
	Slug      string                       `yaml:"slug"`
	Summary   string                       `yaml:"summary"`
	Tags      []string                     `yaml:"tags"`
	Draft     bool                         `yaml:"draft"`
	TaskLists *interfaces.TaskListOverride `yaml:"tasklists"`
	Custom    map[string]any               `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := util.CloneAnyMap(env.Custom)

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.TaskLists != nil {
		raw["tasklists"] = overrideToMap(env.TaskLists)
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:     env.Title,
		Slug:      env.Slug,
		Summary:   env.Summary,
		Tags:      append([]string(nil), env.Tags...),
		Draft:     env.Draft,
		TaskLists: env.TaskLists,
		Custom:    util.CloneAnyMap(env.Custom),
		Raw:       raw,
	}
}

func overrideToMap(override *interfaces.TaskListOverride) map[string]any {
	out := map[string]any{}
	set := func(key string, value *bool) {
		if value != nil {
			out[key] = *value
		}
	}
	set("enabled", override.Enabled)
	set("label", override.Label)
	set("label_after", override.LabelAfter)
	set("line_number", override.LineNumber)
	return out
}
