package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
)

const shelfPrefix = "shelf:"

// CreateShelf creates a new shelf in the store.
func (s *Store) CreateShelf(_ context.Context, shelf *domain.Shelf) error {
	key := buildKey(shelfPrefix, shelf.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check shelf exists: %w", err)
	}
	if exists {
		return ErrShelfExists
	}

	if err := s.set(key, shelf); err != nil {
		return fmt.Errorf("create shelf: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("shelf created",
			"id", shelf.ID,
			"name", shelf.Name,
		)
	}

	s.eventEmitter.Emit(sse.NewShelfCreatedEvent(shelf))
	return nil
}

// GetShelf retrieves a shelf by ID.
func (s *Store) GetShelf(_ context.Context, id string) (*domain.Shelf, error) {
	key := buildKey(shelfPrefix, id)
	defer releaseKey(key)

	var shelf domain.Shelf
	if err := s.get(key, &shelf); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrShelfNotFound
		}
		return nil, fmt.Errorf("get shelf: %w", err)
	}

	return &shelf, nil
}

// UpdateShelf updates an existing shelf in the store.
func (s *Store) UpdateShelf(ctx context.Context, shelf *domain.Shelf) error {
	key := buildKey(shelfPrefix, shelf.ID)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check shelf exists: %w", err)
	}
	if !exists {
		return ErrShelfNotFound
	}

	if err := s.set(key, shelf); err != nil {
		return fmt.Errorf("update shelf: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("shelf updated",
			"id", shelf.ID,
			"name", shelf.Name,
		)
	}

	s.eventEmitter.Emit(sse.NewShelfUpdatedEvent(shelf))
	return nil
}

// DeleteShelf deletes a shelf and moves its books to the default shelf.
// The default shelf itself is protected. Deletion and re-parenting happen
// in one transaction so no book is ever left pointing at a missing shelf.
func (s *Store) DeleteShelf(ctx context.Context, id string) error {
	if id == domain.DefaultShelfID {
		return ErrShelfProtected
	}

	key := buildKey(shelfPrefix, id)
	defer releaseKey(key)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check shelf exists: %w", err)
	}
	if !exists {
		return ErrShelfNotFound
	}

	var reparented int

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete shelf: %w", err)
		}

		// Re-parent books from the deleted shelf to the default shelf.
		prefix := []byte(bookPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var book domain.Book
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return err
			}

			if book.ShelfID != id {
				continue
			}

			book.ShelfID = domain.DefaultShelfID
			data, err := json.Marshal(&book)
			if err != nil {
				return fmt.Errorf("marshal book: %w", err)
			}
			if err := txn.Set(item.KeyCopy(nil), data); err != nil {
				return err
			}
			reparented++
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete shelf: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("shelf deleted",
			"id", id,
			"books_reparented", reparented,
		)
	}

	s.eventEmitter.Emit(sse.NewShelfDeletedEvent(id, reparented))
	return nil
}

// ListShelves returns all shelves in the store.
func (s *Store) ListShelves(ctx context.Context) ([]*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var shelves []*domain.Shelf

	prefix := []byte(shelfPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var shelf domain.Shelf
				if err := json.Unmarshal(val, &shelf); err != nil {
					return err
				}
				shelves = append(shelves, &shelf)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}

	return shelves, nil
}
