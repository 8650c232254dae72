package store

import (
	"context"
	"testing"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a test book
func createTestBook(id string) *domain.Book {
	book := domain.NewBook(id, "Test Book", "Test Author")
	book.PageCount = 120
	return book
}

// TestCreateBook tests creating a new book
func TestCreateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")

	err := store.CreateBook(ctx, book)
	require.NoError(t, err)

	// Verify book was created
	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, retrieved.ID)
	assert.Equal(t, book.Title, retrieved.Title)
	assert.Equal(t, domain.DefaultShelfID, retrieved.ShelfID)
	assert.Equal(t, 120, retrieved.PageCount)
}

// TestCreateBook_Duplicate tests that creating a duplicate book returns an error
func TestCreateBook_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")

	err := store.CreateBook(ctx, book)
	require.NoError(t, err)

	// Try to create again - should fail
	err = store.CreateBook(ctx, book)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrBookExists)
}

// TestGetBook_NotFound tests retrieving a missing book
func TestGetBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetBook(context.Background(), "book-missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-002")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-003")))

	books, err := store.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestListBooksByShelf(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	shelf := domain.NewShelf("shelf-001", "Philosophy", "#334455")
	require.NoError(t, store.CreateShelf(ctx, shelf))

	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-002")))

	_, err := store.MoveBookToShelf(ctx, "book-002", "shelf-001")
	require.NoError(t, err)

	onShelf, err := store.ListBooksByShelf(ctx, "shelf-001")
	require.NoError(t, err)
	require.Len(t, onShelf, 1)
	assert.Equal(t, "book-002", onShelf[0].ID)

	onDefault, err := store.ListBooksByShelf(ctx, domain.DefaultShelfID)
	require.NoError(t, err)
	assert.Len(t, onDefault, 1)
}

func TestMoveBookToShelf_MissingShelf(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	_, err := store.MoveBookToShelf(ctx, "book-001", "shelf-missing")
	assert.ErrorIs(t, err, ErrShelfNotFound)
}

// TestAddBookSeconds tests the single-transaction time credit path.
func TestAddBookSeconds(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	book, err := store.AddBookSeconds(ctx, "book-001", 600, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), book.TimeSpentSeconds)
	assert.Equal(t, uint64(600), book.DailyTimeSeconds)
	assert.Equal(t, uint32(0), book.Stars)

	// Crossing the 900 second boundary earns the first star.
	book, err = store.AddBookSeconds(ctx, "book-001", 300, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), book.TimeSpentSeconds)
	assert.Equal(t, uint32(1), book.Stars)
}

func TestAddBookSeconds_EmitsStarEvent(t *testing.T) {
	store, emitter, cleanup := setupTestStoreWithEmitter(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	now := time.Now()
	_, err := store.AddBookSeconds(ctx, "book-001", 899, now)
	require.NoError(t, err)
	_, err = store.AddBookSeconds(ctx, "book-001", 1, now)
	require.NoError(t, err)

	var starEvents []sse.Event
	for _, e := range emitter.events {
		evt, ok := e.(sse.Event)
		if ok && evt.Type == sse.EventStarReached {
			starEvents = append(starEvents, evt)
		}
	}
	require.Len(t, starEvents, 1)
	data, ok := starEvents[0].Data.(sse.StarReachedEventData)
	require.True(t, ok)
	assert.Equal(t, uint32(1), data.Stars)
}

func TestAddBookSeconds_DailyResetOnNewDay(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	day1 := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)

	_, err := store.AddBookSeconds(ctx, "book-001", 500, day1)
	require.NoError(t, err)

	book, err := store.AddBookSeconds(ctx, "book-001", 100, day2)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), book.TimeSpentSeconds)
	assert.Equal(t, uint64(100), book.DailyTimeSeconds)
}

func TestUpdateBookPage(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	book, err := store.UpdateBookPage(ctx, "book-001", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, book.LastPage)

	// Out-of-range positions are rejected and the stored value is untouched.
	_, err = store.UpdateBookPage(ctx, "book-001", 120)
	assert.Error(t, err)

	_, err = store.UpdateBookPage(ctx, "book-001", -1)
	assert.Error(t, err)

	book, err = store.GetBook(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, 42, book.LastPage)
}

func TestDeleteAllBooks(t *testing.T) {
	store, emitter, cleanup := setupTestStoreWithEmitter(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-002")))
	require.NoError(t, store.SavePDF(ctx, "book-001", []byte("%PDF-1.7")))

	shelf := domain.NewShelf("shelf-001", "Keep Me", "#112233")
	require.NoError(t, store.CreateShelf(ctx, shelf))

	removed, err := store.DeleteAllBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	books, err := store.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)

	// Shelves survive a wipe.
	_, err = store.GetShelf(ctx, "shelf-001")
	assert.NoError(t, err)

	var wiped bool
	for _, e := range emitter.events {
		if evt, ok := e.(sse.Event); ok && evt.Type == sse.EventLibraryWiped {
			wiped = true
		}
	}
	assert.True(t, wiped, "expected a library wiped event")
}
