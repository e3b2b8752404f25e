package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TaskItemUUID identifies the ordinal-th task item (1-based) of the document
// named by scope, for checkboxes using prefix.
func TaskItemUUID(prefix, scope string, ordinal int) uuid.UUID {
	return UUID("tasklists:task_item:" + strings.TrimSpace(prefix) + ":" + strings.TrimSpace(scope) + ":" + strconv.Itoa(ordinal))
}
