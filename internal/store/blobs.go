package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// pdfBlobPrefix keys the raw PDF bytes for a book. Blobs live in the
// same database as metadata so a single wipe clears both.
const pdfBlobPrefix = "pdfblob:"

// SavePDF stores the raw PDF bytes for a book.
func (s *Store) SavePDF(ctx context.Context, bookID string, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInput.WithMessage("empty document data")
	}

	key := buildKey(pdfBlobPrefix, bookID)
	defer releaseKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("save pdf blob: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "pdf blob saved",
			slog.String("book_id", bookID),
			slog.Int("bytes", len(data)),
		)
	}
	return nil
}

// GetPDF retrieves the raw PDF bytes for a book.
// A missing blob for an existing book means the stored document is
// unreadable; callers surface that as a document error, not a crash.
func (s *Store) GetPDF(_ context.Context, bookID string) ([]byte, error) {
	key := buildKey(pdfBlobPrefix, bookID)
	defer releaseKey(key)

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("get pdf blob: %w", err)
	}
	return data, nil
}

// DeletePDF removes the raw PDF bytes for a book.
func (s *Store) DeletePDF(_ context.Context, bookID string) error {
	key := buildKey(pdfBlobPrefix, bookID)
	defer releaseKey(key)

	if err := s.delete(key); err != nil {
		return fmt.Errorf("delete pdf blob: %w", err)
	}
	return nil
}
