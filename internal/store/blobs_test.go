package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePDF_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	data := []byte("%PDF-1.7\n%fake document body")

	require.NoError(t, store.SavePDF(ctx, "book-001", data))

	got, err := store.GetPDF(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSavePDF_EmptyRejected(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SavePDF(context.Background(), "book-001", nil)
	assert.Error(t, err)
}

func TestGetPDF_Missing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetPDF(context.Background(), "book-missing")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestDeletePDF(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SavePDF(ctx, "book-001", []byte("%PDF-1.7")))
	require.NoError(t, store.DeletePDF(ctx, "book-001"))

	_, err := store.GetPDF(ctx, "book-001")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}
