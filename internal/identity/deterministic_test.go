package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := UUID("tasklists:test")
	second := UUID("  tasklists:test  ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected surrounding whitespace to be ignored, got %s and %s", first, second)
	}
	if UUID("") != uuid.Nil {
		t.Fatal("expected empty key to yield uuid.Nil")
	}
}

func TestTaskItemUUIDSeparatesInputs(t *testing.T) {
	base := TaskItemUUID("task-item", "todo.md", 1)
	if base != TaskItemUUID("task-item", "todo.md", 1) {
		t.Fatal("expected repeated derivation to match")
	}
	for name, other := range map[string]uuid.UUID{
		"ordinal": TaskItemUUID("task-item", "todo.md", 2),
		"scope":   TaskItemUUID("task-item", "done.md", 1),
		"prefix":  TaskItemUUID("todo", "todo.md", 1),
	} {
		if other == base {
			t.Fatalf("expected %s to change the uuid", name)
		}
	}
}
