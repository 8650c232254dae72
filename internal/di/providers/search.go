package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/sanctuaryapp/sanctuary-server/internal/config"
	"github.com/sanctuaryapp/sanctuary-server/internal/logger"
	"github.com/sanctuaryapp/sanctuary-server/internal/search"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(storeHandle.Store, indexHandle.Index, log.Logger)

	// Wire to store for automatic indexing on book mutations.
	storeHandle.SetSearchIndexer(indexHandle.Index)

	return svc, nil
}

// EnsureSearchIndexed heals an empty index from the library.
// Should be called after all services are wired.
func EnsureSearchIndexed(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*shutdownTimeout)
		defer cancel()
		if err := searchService.EnsureIndexed(ctx); err != nil {
			log.Warn("Search index healing failed", "error", err)
		}
	}()
}
