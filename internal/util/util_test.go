package util

import "testing"

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "", "content"); got != "content" {
		t.Fatalf("expected content, got %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCloneAnyMap(t *testing.T) {
	src := map[string]any{"tags": "tasks"}
	out := CloneAnyMap(src)
	out["extra"] = true
	if _, ok := src["extra"]; ok {
		t.Fatal("expected clone to be independent of the source")
	}

	if got := CloneAnyMap(map[string]string{"a": "b"}); got["a"] != "b" {
		t.Fatalf("expected string map to be copied, got %v", got)
	}
	if got := CloneAnyMap(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", got)
	}
}
