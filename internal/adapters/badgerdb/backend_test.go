package badgerdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/example/packtrack/internal/adapters/backendtest"
	"github.com/example/packtrack/internal/adapters/badgerdb"
	"github.com/example/packtrack/internal/ports/secondary"
)

func newTestBackend(t *testing.T, now func() time.Time) secondary.Backend {
	t.Helper()
	b, err := badgerdb.Open(badgerdb.Options{InMemory: true, Logger: zaptest.NewLogger(t), Now: now})
	require.NoError(t, err)
	return b
}

func TestBackendConformance(t *testing.T) {
	backendtest.Run(t, newTestBackend)
}

func TestBackend_Name(t *testing.T) {
	b := newTestBackend(t, nil)
	defer b.Close()
	assert.Equal(t, "local", b.Name())
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b, err := badgerdb.Open(badgerdb.Options{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, b.Shipments().Create(ctx, &secondary.ShipmentRecord{
		ID:          "s1",
		Code:        "S-AAAA",
		NameOrPlate: "34 ABC 123",
		CreatedBy:   "ayse",
		CreatedAt:   backendtest.Epoch,
		UpdatedAt:   backendtest.Epoch,
	}))
	require.NoError(t, b.Close())

	b, err = badgerdb.Open(badgerdb.Options{Dir: dir})
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Shipments().GetByCode(ctx, "S-AAAA")
	require.NoError(t, err)
	assert.Equal(t, "34 ABC 123", got.NameOrPlate)
	assert.True(t, got.CreatedAt.Equal(backendtest.Epoch))
}

func TestOpen_CanceledContext(t *testing.T) {
	b := newTestBackend(t, nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Boxes().List(ctx, secondary.BoxFilters{})
	assert.ErrorIs(t, err, context.Canceled)
}
