package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
)

const bookPrefix = "book:"

// CreateBook creates a new book.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	key := buildKey(bookPrefix, book.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.Int("page_count", book.PageCount),
		)
	}

	s.eventEmitter.Emit(sse.NewBookCreatedEvent(book))
	s.indexBookAsync(book)
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(_ context.Context, id string) (*domain.Book, error) {
	key := buildKey(bookPrefix, id)
	defer releaseKey(key)

	var book domain.Book
	if err := s.get(key, &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// ListBooks returns all books in the library.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var books []*domain.Book

	prefix := []byte(bookPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// ListBooksByShelf returns all books assigned to a shelf.
func (s *Store) ListBooksByShelf(ctx context.Context, shelfID string) ([]*domain.Book, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	filtered := books[:0]
	for _, book := range books {
		if book.ShelfID == shelfID {
			filtered = append(filtered, book)
		}
	}
	return filtered, nil
}

// UpdateBook replaces an existing book record.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	key := buildKey(bookPrefix, book.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "book updated",
			slog.String("id", book.ID),
		)
	}

	s.eventEmitter.Emit(sse.NewBookUpdatedEvent(book))
	s.indexBookAsync(book)
	return nil
}

// AddBookSeconds credits reading time to a book inside a single transaction.
// Read-modify-write under one Update keeps concurrent ticks from losing
// each other's seconds. Emits a star event when the cumulative total
// crosses a star boundary.
func (s *Store) AddBookSeconds(ctx context.Context, id string, delta uint64, now time.Time) (*domain.Book, error) {
	key := buildKey(bookPrefix, id)
	defer releaseKey(key)

	var book domain.Book
	var starCrossed bool

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		}); err != nil {
			return err
		}

		before := book.Stars
		book.AddSeconds(delta, now)
		starCrossed = book.Stars > before

		data, err := json.Marshal(&book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("add book seconds: %w", err)
	}

	if starCrossed {
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "star earned",
				slog.String("id", book.ID),
				slog.Uint64("stars", uint64(book.Stars)),
			)
		}
		s.eventEmitter.Emit(sse.NewStarReachedEvent(book.ID, book.Stars, book.TimeSpentSeconds))
	}

	return &book, nil
}

// UpdateBookPage records the resume position for a book.
// Out-of-range positions are rejected with ErrInvalidInput.
func (s *Store) UpdateBookPage(ctx context.Context, id string, page int) (*domain.Book, error) {
	key := buildKey(bookPrefix, id)
	defer releaseKey(key)

	var book domain.Book

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		}); err != nil {
			return err
		}

		if !book.SetLastPage(page) {
			return ErrInvalidInput.WithMessage(
				fmt.Sprintf("page %d is out of range for a %d page document", page, book.PageCount))
		}

		data, err := json.Marshal(&book)
		if err != nil {
			return fmt.Errorf("marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		var storeErr *Error
		if errors.As(err, &storeErr) {
			return nil, storeErr
		}
		return nil, fmt.Errorf("update book page: %w", err)
	}

	return &book, nil
}

// MoveBookToShelf reassigns a book to a different shelf.
func (s *Store) MoveBookToShelf(ctx context.Context, bookID, shelfID string) (*domain.Book, error) {
	shelfKey := buildKey(shelfPrefix, shelfID)
	shelfExists, err := s.exists(shelfKey)
	releaseKey(shelfKey)
	if err != nil {
		return nil, fmt.Errorf("check shelf exists: %w", err)
	}
	if !shelfExists {
		return nil, ErrShelfNotFound
	}

	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.ShelfID = shelfID
	if err := s.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteAllBooks wipes every book and PDF blob from the library.
// Shelves and the habit record survive a wipe. Returns the number of
// books removed.
func (s *Store) DeleteAllBooks(ctx context.Context) (int, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, book := range books {
			bookKey := buildKey(bookPrefix, book.ID)
			err := txn.Delete(bookKey)
			releaseKey(bookKey)
			if err != nil {
				return err
			}

			blobKey := buildKey(pdfBlobPrefix, book.ID)
			err = txn.Delete(blobKey)
			releaseKey(blobKey)
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("wipe library: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "library wiped",
			slog.Int("books_removed", len(books)),
		)
	}

	s.eventEmitter.Emit(sse.NewLibraryWipedEvent(len(books)))
	for _, book := range books {
		s.deleteBookIndexAsync(book.ID)
	}
	return len(books), nil
}

// indexBookAsync updates the search index without blocking the store operation.
func (s *Store) indexBookAsync(book *domain.Book) {
	if s.searchIndexer == nil {
		return
	}
	b := *book
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.searchIndexer.IndexBook(ctx, &b); err != nil && s.logger != nil {
			s.logger.Warn("failed to index book", "book_id", b.ID, "error", err)
		}
	}()
}

// deleteBookIndexAsync removes a book from the search index without blocking.
func (s *Store) deleteBookIndexAsync(bookID string) {
	if s.searchIndexer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.searchIndexer.DeleteBook(ctx, bookID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove book from index", "book_id", bookID, "error", err)
		}
	}()
}
