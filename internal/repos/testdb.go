package repos

import (
	"testing"

	"github.com/jmoiron/sqlx"
)

// NewTestDB opens a migrated and seeded in-memory SQLite database closed at test end.
func NewTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := OpenDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
