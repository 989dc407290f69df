// Package helpers provides shared test fixtures.
package helpers

import (
	"testing"

	"github.com/xiaot623/llmreplay/store"
)

// NewTestReplayLog creates an in-memory replay log that is closed when the
// test ends.
func NewTestReplayLog(t *testing.T) *store.SQLiteReplayLog {
	t.Helper()

	l, err := store.NewSQLiteReplayLog(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite replay log: %v", err)
	}

	t.Cleanup(func() {
		_ = l.Close()
	})

	return l
}
