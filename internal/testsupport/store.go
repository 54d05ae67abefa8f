package testsupport

import (
	"path/filepath"
	"testing"

	"resyncinator/internal/journal"
)

// MustOpenStore opens a journal.Store backed by a per-test database and
// registers cleanup.
func MustOpenStore(t testing.TB) *journal.Store {
	t.Helper()

	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
