package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
)

// mutateBook loads a book, applies fn, and writes the result back inside
// a single transaction. fn returning an error aborts the write.
func (s *Store) mutateBook(id string, fn func(*domain.Book) error) (*domain.Book, error) {
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

		if err := fn(&book); err != nil {
			return err
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
		return nil, fmt.Errorf("mutate book: %w", err)
	}

	return &book, nil
}

// AddAnnotation appends a committed annotation to a book.
// Coordinates must already be clamped and validated by the caller.
func (s *Store) AddAnnotation(ctx context.Context, bookID string, ann domain.Annotation) (*domain.Book, error) {
	book, err := s.mutateBook(bookID, func(b *domain.Book) error {
		if !ann.Valid() {
			return ErrInvalidInput.WithMessage("annotation failed validation")
		}
		if ann.PageIndex < 0 || (b.PageCount > 0 && ann.PageIndex >= b.PageCount) {
			return ErrInvalidInput.WithMessage(
				fmt.Sprintf("annotation page %d is out of range", ann.PageIndex))
		}
		b.Annotations = append(b.Annotations, ann)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "annotation added",
			slog.String("book_id", bookID),
			slog.String("annotation_id", ann.ID),
			slog.String("type", string(ann.Type)),
			slog.Int("page", ann.PageIndex),
		)
	}

	s.eventEmitter.Emit(sse.NewBookUpdatedEvent(book))
	s.indexBookAsync(book)
	return book, nil
}

// UpdateAnnotationNote replaces the note title and text attached to an
// annotation. An empty color leaves the existing color untouched.
func (s *Store) UpdateAnnotationNote(ctx context.Context, bookID, annotationID, title, text, color string) (*domain.Book, error) {
	book, err := s.mutateBook(bookID, func(b *domain.Book) error {
		ann := b.AnnotationByID(annotationID)
		if ann == nil {
			return ErrAnnotationNotFound
		}
		ann.Title = title
		ann.Text = text
		if color != "" {
			ann.Color = color
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventEmitter.Emit(sse.NewBookUpdatedEvent(book))
	s.indexBookAsync(book)
	return book, nil
}

// DeleteAnnotation removes an annotation from a book.
func (s *Store) DeleteAnnotation(ctx context.Context, bookID, annotationID string) (*domain.Book, error) {
	book, err := s.mutateBook(bookID, func(b *domain.Book) error {
		if !b.RemoveAnnotation(annotationID) {
			return ErrAnnotationNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "annotation deleted",
			slog.String("book_id", bookID),
			slog.String("annotation_id", annotationID),
		)
	}

	s.eventEmitter.Emit(sse.NewBookUpdatedEvent(book))
	s.indexBookAsync(book)
	return book, nil
}
