package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/sanctuaryapp/sanctuary-server/internal/config"
	"github.com/sanctuaryapp/sanctuary-server/internal/logger"
	"github.com/sanctuaryapp/sanctuary-server/internal/media/covers"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

// ProvideBookService provides the book import and library service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	generator := do.MustInvoke[*covers.Generator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, generator, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, log.Logger), nil
}

// ProvideAmbientRegistry provides the ambient sound registry, scanned
// from the configured ambient directory.
func ProvideAmbientRegistry(i do.Injector) (*reader.AmbientRegistry, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	registry := reader.NewAmbientRegistry(log.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := registry.Scan(ctx, cfg.Reader.AmbientPath); err != nil {
		// Ambient sound is optional; reading works without it.
		log.Warn("Ambient track scan failed", "path", cfg.Reader.AmbientPath, "error", err)
	} else {
		log.Info("Ambient tracks loaded", "count", len(registry.Tracks()))
	}

	return registry, nil
}

// ReaderServiceHandle wraps the reader service so open sessions are
// torn down on shutdown.
type ReaderServiceHandle struct {
	*service.ReaderService
}

// Shutdown implements do.Shutdownable.
func (h *ReaderServiceHandle) Shutdown() error {
	h.CloseAll()
	return nil
}

// ProvideReaderService provides the reading session service.
func ProvideReaderService(i do.Injector) (*ReaderServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	ambient := do.MustInvoke[*reader.AmbientRegistry](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &ReaderServiceHandle{
		ReaderService: service.NewReaderService(storeHandle.Store, ambient, cfg.Reader.RTL, log.Logger),
	}, nil
}

// ProvideHabitService provides the reading habit service.
func ProvideHabitService(i do.Injector) (*service.HabitService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHabitService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the library statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}
