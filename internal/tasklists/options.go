package tasklists

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-tasklists/pkg/interfaces"
)

// DefaultIDPrefix is used for label-after ids when no prefix is configured.
const DefaultIDPrefix = "task-item"

// Options is the immutable per-render configuration of the rewriter.
type Options = interfaces.TaskListOptions

// ValidateOptions checks the id prefix; every flag combination is accepted.
// LabelAfter without Label renders no label at all.
func ValidateOptions(opts Options) error {
	return validation.ValidateStruct(&opts,
		validation.Field(&opts.IDPrefix, validation.By(func(value any) error {
			prefix, _ := value.(string)
			if prefix == "" || slug.IsValid(prefix) {
				return nil
			}
			return validation.NewError("tasklists.id_prefix.invalid", "id prefix must be a slug")
		})),
	)
}

// NormalizeIDPrefix turns free text into a usable id prefix, falling back to
// DefaultIDPrefix when nothing survives normalisation.
func NormalizeIDPrefix(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DefaultIDPrefix
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return DefaultIDPrefix
	}
	return normalized
}

func resolvePrefix(opts Options) string {
	if strings.TrimSpace(opts.IDPrefix) == "" {
		return DefaultIDPrefix
	}
	return opts.IDPrefix
}
