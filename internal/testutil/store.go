package testutil

import (
	"testing"

	"github.com/vdavid/chatseed/internal/sqlitestore"
)

// NewTestSQLiteStore creates an in-memory SQLite store with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestSQLiteStore(t *testing.T) *sqlitestore.Store {
	t.Helper()

	s, err := sqlitestore.New(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
