package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/sanctuaryapp/sanctuary-server/internal/api"
	"github.com/sanctuaryapp/sanctuary-server/internal/config"
	"github.com/sanctuaryapp/sanctuary-server/internal/logger"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	limiterHandle := do.MustInvoke[*ImportLimiterHandle](i)

	bookService := do.MustInvoke[*service.BookService](i)
	shelfService := do.MustInvoke[*service.ShelfService](i)
	readerHandle := do.MustInvoke[*ReaderServiceHandle](i)
	habitService := do.MustInvoke[*service.HabitService](i)
	statsService := do.MustInvoke[*service.StatsService](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	services := &api.Services{
		Book:   bookService,
		Shelf:  shelfService,
		Reader: readerHandle.ReaderService,
		Habit:  habitService,
		Stats:  statsService,
		Search: searchService,
	}

	handler := api.NewServer(storeHandle.Store, services, sseHandler, sseHandle.Manager, limiterHandle.KeyedRateLimiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
