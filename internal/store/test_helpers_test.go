package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// openJournalFile opens a file-backed journal that is closed with the test.
func openJournalFile(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(token string) Session {
	return Session{Token: token, Module: "TOR_Core", Available: true, StartedTick: 1}
}
