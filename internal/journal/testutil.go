package journal

import (
	"testing"
)

// TestJournal creates an in-memory journal and registers t.Cleanup() to close it.
func TestJournal(t testing.TB) *Journal {
	t.Helper()

	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test journal: %v", err)
	}

	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Logf("failed to close test journal: %v", err)
		}
	})

	return j
}
