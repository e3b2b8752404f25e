package tasklists

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-tasklists/internal/identity"
)

// IDGenerator hands out checkbox ids for a single render.
type IDGenerator interface {
	NextID() string
}

// IDSource builds a fresh generator for every rewrite pass, so any counter
// state is scoped to one document.
type IDSource func(prefix string) IDGenerator

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NextID implements IDGenerator.
func (f IDGeneratorFunc) NextID() string { return f() }

// RandomIDs produces prefix-<uuid> ids. Collisions across renders are not a
// practical concern.
func RandomIDs() IDSource {
	return func(prefix string) IDGenerator {
		return IDGeneratorFunc(func() string {
			return prefix + "-" + uuid.NewString()
		})
	}
}

// SequentialIDs produces prefix-1, prefix-2, ... restarting for every render.
func SequentialIDs() IDSource {
	return func(prefix string) IDGenerator {
		next := 0
		return IDGeneratorFunc(func() string {
			next++
			return prefix + "-" + strconv.Itoa(next)
		})
	}
}

// DeterministicIDs derives ids from scope and position so repeated renders of
// the same document produce the same ids.
func DeterministicIDs(scope string) IDSource {
	scope = strings.TrimSpace(scope)
	return func(prefix string) IDGenerator {
		next := 0
		return IDGeneratorFunc(func() string {
			next++
			return prefix + "-" + identity.TaskItemUUID(prefix, scope, next).String()
		})
	}
}

// IDSourceByName resolves a configured strategy name. Unknown names fall back
// to random ids.
func IDSourceByName(name, scope string) IDSource {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequential":
		return SequentialIDs()
	case "deterministic":
		return DeterministicIDs(scope)
	default:
		return RandomIDs()
	}
}
