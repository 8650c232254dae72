package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/search"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
)

// SearchService fronts the full-text index.
type SearchService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// Search runs a query over book titles, authors, and annotation text.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.index.Search(ctx, params)
}

// RebuildIndex drops the index and reindexes every book from the store.
// Run at startup when the index is empty but books exist, or on demand.
func (s *SearchService) RebuildIndex(ctx context.Context) (int, error) {
	start := time.Now()

	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}

	indexed := 0
	for _, book := range books {
		if err := s.index.IndexBook(ctx, book); err != nil {
			s.logger.Warn("failed to index book during rebuild",
				"book_id", book.ID,
				"error", err,
			)
			continue
		}
		indexed++
	}

	s.logger.Info("search index rebuilt",
		"books", indexed,
		"duration", time.Since(start),
	)
	return indexed, nil
}

// DocumentCount reports how many documents the index currently holds.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// EnsureIndexed reindexes the library when the index is empty but the
// store is not, so a deleted or version-bumped index heals itself.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("document count: %w", err)
	}
	if count > 0 {
		return nil
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	if len(books) == 0 {
		return nil
	}

	_, err = s.RebuildIndex(ctx)
	return err
}
