package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creatorblue32/bonsai-medical/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied, closed automatically when the test finishes.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database
}
