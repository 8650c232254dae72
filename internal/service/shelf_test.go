package service

import (
	"context"
	"testing"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShelfService_CreateAndList(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewShelfService(st, testLogger())
	ctx := context.Background()

	shelf, err := svc.CreateShelf(ctx, "  Philosophy  ", "#3F51B5")
	require.NoError(t, err)
	assert.Equal(t, "Philosophy", shelf.Name)
	assert.Equal(t, "#3F51B5", shelf.Color)

	shelves, err := svc.ListShelves(ctx)
	require.NoError(t, err)
	assert.Len(t, shelves, 2) // default shelf plus the new one
}

func TestShelfService_CreateShelf_EmptyName(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewShelfService(st, testLogger())

	_, err := svc.CreateShelf(context.Background(), "   ", "")
	require.Error(t, err)

	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 400, serr.HTTPCode())
}

func TestShelfService_UpdateShelf(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewShelfService(st, testLogger())
	ctx := context.Background()

	shelf, err := svc.CreateShelf(ctx, "History", "")
	require.NoError(t, err)

	name := "World History"
	color := "#FF7043"
	updated, err := svc.UpdateShelf(ctx, shelf.ID, ShelfPatch{Name: &name, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "World History", updated.Name)
	assert.Equal(t, "#FF7043", updated.Color)

	empty := ""
	_, err = svc.UpdateShelf(ctx, shelf.ID, ShelfPatch{Name: &empty})
	require.Error(t, err)
}

func TestShelfService_DeleteDefaultShelfRejected(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewShelfService(st, testLogger())

	err := svc.DeleteShelf(context.Background(), domain.DefaultShelfID)
	assert.ErrorIs(t, err, store.ErrShelfProtected)
}
