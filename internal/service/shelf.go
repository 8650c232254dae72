package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/id"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
)

// ShelfService manages shelf organization.
type ShelfService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(store *store.Store, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:  store,
		logger: logger,
	}
}

// ListShelves returns all shelves. The default shelf always exists.
func (s *ShelfService) ListShelves(ctx context.Context) ([]*domain.Shelf, error) {
	return s.store.ListShelves(ctx)
}

// GetShelf retrieves a shelf by ID.
func (s *ShelfService) GetShelf(ctx context.Context, id string) (*domain.Shelf, error) {
	return s.store.GetShelf(ctx, id)
}

// CreateShelf creates a named shelf.
func (s *ShelfService) CreateShelf(ctx context.Context, name, color string) (*domain.Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, store.ErrInvalidInput.WithMessage("shelf name is required")
	}

	shelf := domain.NewShelf(id.MustGenerate("shelf"), name, color)
	if err := s.store.CreateShelf(ctx, shelf); err != nil {
		return nil, err
	}

	s.logger.Info("shelf created", "shelf_id", shelf.ID, "name", shelf.Name)
	return shelf, nil
}

// ShelfPatch holds the fields a PATCH may change. Nil means unchanged.
type ShelfPatch struct {
	Name  *string
	Color *string
}

// UpdateShelf applies a partial update to a shelf.
func (s *ShelfService) UpdateShelf(ctx context.Context, id string, patch ShelfPatch) (*domain.Shelf, error) {
	shelf, err := s.store.GetShelf(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, store.ErrInvalidInput.WithMessage("shelf name cannot be empty")
		}
		shelf.Name = name
	}
	if patch.Color != nil {
		shelf.Color = *patch.Color
	}
	shelf.Touch()

	if err := s.store.UpdateShelf(ctx, shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// DeleteShelf removes a shelf. Its books move to the default shelf in
// the same transaction; the default shelf itself cannot be deleted.
func (s *ShelfService) DeleteShelf(ctx context.Context, id string) error {
	return s.store.DeleteShelf(ctx, id)
}
