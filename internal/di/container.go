// Package di provides dependency injection configuration for the Sanctuary server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sanctuaryapp/sanctuary-server/internal/config"
	"github.com/sanctuaryapp/sanctuary-server/internal/di/providers"
	"github.com/sanctuaryapp/sanctuary-server/internal/logger"
	"github.com/sanctuaryapp/sanctuary-server/internal/media/covers"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideCoverGenerator)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideAmbientRegistry)
	do.Provide(injector, providers.ProvideReaderService)
	do.Provide(injector, providers.ProvideHabitService)
	do.Provide(injector, providers.ProvideStatsService)

	// Workers
	do.Provide(injector, providers.ProvideImportLimiter)
	do.Provide(injector, providers.ProvideInboxWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*covers.Storage](injector)
	_ = do.MustInvoke[*covers.Generator](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*reader.AmbientRegistry](injector)
	_ = do.MustInvoke[*providers.ReaderServiceHandle](injector)
	_ = do.MustInvoke[*service.HabitService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	// Workers
	_ = do.MustInvoke[*providers.ImportLimiterHandle](injector)
	_ = do.MustInvoke[*providers.InboxWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Heal the search index if it is empty but the library is not.
	providers.EnsureSearchIndexed(injector)

	return nil
}
