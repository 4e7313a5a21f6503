package sqlite_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/packtrack/internal/adapters/backendtest"
	"github.com/example/packtrack/internal/adapters/sqlite"
	"github.com/example/packtrack/internal/db"
	"github.com/example/packtrack/internal/ports/secondary"
)

func newTestBackend(t *testing.T, now func() time.Time) secondary.Backend {
	t.Helper()
	conn, err := db.OpenForTesting()
	require.NoError(t, err)
	return sqlite.NewBackend(conn, now)
}

func TestBackendConformance(t *testing.T) {
	backendtest.Run(t, newTestBackend)
}

func TestBackend_Name(t *testing.T) {
	b := newTestBackend(t, nil)
	defer b.Close()
	require.Equal(t, "remote", b.Name())
}
