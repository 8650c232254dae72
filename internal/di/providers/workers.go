package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/sanctuaryapp/sanctuary-server/internal/config"
	"github.com/sanctuaryapp/sanctuary-server/internal/logger"
	"github.com/sanctuaryapp/sanctuary-server/internal/ratelimit"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
	"github.com/sanctuaryapp/sanctuary-server/internal/watcher"
)

// InboxWatcherHandle wraps the inbox watcher with lifecycle management.
type InboxWatcherHandle struct {
	*watcher.InboxWatcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *InboxWatcherHandle) Shutdown() error {
	h.cancel()
	return h.Stop()
}

// ProvideInboxWatcher provides the inbox directory watcher, importing
// PDFs dropped into the inbox through the book service.
func ProvideInboxWatcher(i do.Injector) (*InboxWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	bookService := do.MustInvoke[*service.BookService](i)

	importFn := func(ctx context.Context, path string, data []byte) error {
		_, err := bookService.Import(ctx, filepath.Base(path), data)
		return err
	}

	w, err := watcher.NewInboxWatcher(cfg.Import.InboxPath, importFn, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	log.Info("Inbox watcher started", "path", cfg.Import.InboxPath)

	return &InboxWatcherHandle{InboxWatcher: w, cancel: cancel}, nil
}

// ImportLimiterHandle wraps the import rate limiter with lifecycle management.
type ImportLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *ImportLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideImportLimiter provides the per-client import rate limiter.
func ProvideImportLimiter(i do.Injector) (*ImportLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	rps := float64(cfg.Import.RatePerMinute) / 60.0
	return &ImportLimiterHandle{
		KeyedRateLimiter: ratelimit.New(rps, cfg.Import.RatePerMinute),
	}, nil
}
