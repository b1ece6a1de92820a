package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDb(t *testing.T) *DbContext {
	t.Helper()

	dbCtx, err := NewDbContext(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}
