package service

import (
	"context"
	"os"
	"testing"

	"github.com/sanctuaryapp/sanctuary-server/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearchService(t *testing.T) (*SearchService, *BookService, func()) {
	t.Helper()

	books, st, bookCleanup := setupBookService(t)

	tmpDir, err := os.MkdirTemp("", "sanctuary-search-test-*")
	require.NoError(t, err)

	index, err := search.NewIndex(search.Options{DataPath: tmpDir})
	require.NoError(t, err)
	st.SetSearchIndexer(index)

	svc := NewSearchService(st, index, testLogger())

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
		bookCleanup()
	}

	return svc, books, cleanup
}

func TestSearchService_RebuildIndex(t *testing.T) {
	svc, books, cleanup := setupSearchService(t)
	defer cleanup()

	ctx := context.Background()
	_, err := books.Import(ctx, "winds.pdf", buildTextPDF("The Name of the Wind"))
	require.NoError(t, err)

	indexed, err := svc.RebuildIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, indexed)

	result, err := svc.Search(ctx, search.SearchParams{Query: "Wind"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestSearchService_EnsureIndexed_HealsEmptyIndex(t *testing.T) {
	svc, books, cleanup := setupSearchService(t)
	defer cleanup()

	ctx := context.Background()
	_, err := books.Import(ctx, "one.pdf", buildTextPDF("Lonesome Dove"))
	require.NoError(t, err)

	// Simulate a wiped index with a populated store.
	require.NoError(t, svc.index.Rebuild())

	require.NoError(t, svc.EnsureIndexed(ctx))

	result, err := svc.Search(ctx, search.SearchParams{Query: "Lonesome"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestSearchService_Search_ClampsLimit(t *testing.T) {
	svc, _, cleanup := setupSearchService(t)
	defer cleanup()

	result, err := svc.Search(context.Background(), search.SearchParams{Query: "anything", Limit: 5000})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
