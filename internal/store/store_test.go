package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create temp directory for test database
	tmpDir, err := os.MkdirTemp("", "sanctuary-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	// Create store with noop emitter for testing
	store, err := New(dbPath, nil, NewNoopEmitter())
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

// captureEmitter records emitted events for assertions.
type captureEmitter struct {
	events []any
}

func (c *captureEmitter) Emit(event any) {
	c.events = append(c.events, event)
}

func setupTestStoreWithEmitter(t *testing.T) (*Store, *captureEmitter, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "sanctuary-test-*")
	require.NoError(t, err)

	emitter := &captureEmitter{}
	store, err := New(filepath.Join(tmpDir, "test.db"), nil, emitter)
	require.NoError(t, err)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, emitter, cleanup
}

func TestNew_SeedsDefaultShelf(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	shelf, err := store.GetShelf(context.Background(), domain.DefaultShelfID)
	require.NoError(t, err)
	assert.Equal(t, "My Books", shelf.Name)
	assert.True(t, shelf.IsDefault())
}

func TestNew_ReopenKeepsDefaultShelf(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "sanctuary-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	store, err := New(dbPath, nil, NewNoopEmitter())
	require.NoError(t, err)

	shelf, err := store.GetShelf(ctx, domain.DefaultShelfID)
	require.NoError(t, err)
	shelf.Name = "Renamed"
	require.NoError(t, store.UpdateShelf(ctx, shelf))
	require.NoError(t, store.Close())

	// Reopening must not reset the customized default shelf.
	store, err = New(dbPath, nil, NewNoopEmitter())
	require.NoError(t, err)
	defer store.Close()

	shelf, err = store.GetShelf(ctx, domain.DefaultShelfID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", shelf.Name)
}
