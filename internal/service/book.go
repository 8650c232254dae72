// Package service provides the business logic layer for the library,
// reading sessions, habits, and search.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/id"
	"github.com/sanctuaryapp/sanctuary-server/internal/media/covers"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader/pdf"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
)

// BookService orchestrates book import and library management.
type BookService struct {
	store  *store.Store
	covers *covers.Generator
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, covers *covers.Generator, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		covers: covers,
		logger: logger,
	}
}

// Import creates a book from raw PDF bytes. The document is validated,
// the blob saved, a cover thumbnail rendered, and the book indexed.
// A freshly imported book has zero reading time, zero stars, and resumes
// at page zero.
func (s *BookService) Import(ctx context.Context, filename string, data []byte) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pdf.Open(data)
	if err != nil {
		return nil, store.ErrInvalidInput.WithMessage("not a readable PDF").WithCause(err)
	}

	title := doc.Title()
	if title == "" {
		title = titleFromFilename(filename)
	}

	book := domain.NewBook(id.MustGenerate("book"), title, "")
	book.PageCount = doc.PageCount()

	if err := s.store.SavePDF(ctx, book.ID, data); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	// A failed cover render is cosmetic; the book is still usable.
	if s.covers != nil {
		cover, coverErr := s.covers.Generate(doc, book.ID)
		if coverErr != nil {
			s.logger.Warn("cover generation failed",
				"book_id", book.ID,
				"error", coverErr,
			)
		} else {
			book.Cover = cover
		}
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		_ = s.store.DeletePDF(ctx, book.ID)
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book imported",
		"book_id", book.ID,
		"title", book.Title,
		"pages", book.PageCount,
	)

	return book, nil
}

// ListBooks returns every book, optionally filtered to one shelf.
func (s *BookService) ListBooks(ctx context.Context, shelfID string) ([]*domain.Book, error) {
	if shelfID != "" {
		return s.store.ListBooksByShelf(ctx, shelfID)
	}
	return s.store.ListBooks(ctx)
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.store.GetBook(ctx, id)
}

// BookPatch holds the fields a PATCH may change. Nil means unchanged.
type BookPatch struct {
	Title   *string
	Author  *string
	ShelfID *string
}

// UpdateBook applies a partial update to a book's metadata.
func (s *BookService) UpdateBook(ctx context.Context, id string, patch BookPatch) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		book.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Author != nil {
		book.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.ShelfID != nil && *patch.ShelfID != book.ShelfID {
		return s.store.MoveBookToShelf(ctx, id, *patch.ShelfID)
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetCover returns the cover JPEG for a book.
func (s *BookService) GetCover(ctx context.Context, bookID string) ([]byte, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Cover == nil {
		return nil, store.ErrCoverNotFound
	}
	data, err := s.covers.Storage().Get(bookID)
	if err != nil {
		return nil, store.ErrCoverNotFound.WithCause(err)
	}
	return data, nil
}

// WipeLibrary deletes every book, blob, and cover. Shelves and habit
// history survive a wipe.
func (s *BookService) WipeLibrary(ctx context.Context) (int, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}

	removed, err := s.store.DeleteAllBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete books: %w", err)
	}

	if s.covers != nil {
		for _, book := range books {
			if err := s.covers.Storage().Delete(book.ID); err != nil {
				s.logger.Warn("failed to delete cover during wipe",
					"book_id", book.ID,
					"error", err,
				)
			}
		}
	}

	s.logger.Info("library wiped", "books_removed", removed)
	return removed, nil
}

// titleFromFilename derives a display title from an uploaded filename.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Untitled"
	}
	return base
}
