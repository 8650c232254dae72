// Package watcher imports PDFs dropped into the inbox directory.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long a file must stop changing before it is
// considered fully written. Copies into the inbox arrive in chunks, so
// importing on the first write event would read a truncated document.
const DefaultSettleDelay = 2 * time.Second

// ImportFunc ingests one settled PDF. A nil error means the file was
// consumed and will be removed from the inbox.
type ImportFunc func(ctx context.Context, path string, data []byte) error

// InboxWatcher monitors a single directory for dropped PDF files and
// feeds them to an importer once they stop growing.
type InboxWatcher struct {
	dir         string
	importFn    ImportFunc
	logger      *slog.Logger
	settleDelay time.Duration

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingFile
	done    chan struct{}
	wg      sync.WaitGroup
}

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// NewInboxWatcher creates a watcher over dir. The directory is created
// if missing.
func NewInboxWatcher(dir string, importFn ImportFunc, logger *slog.Logger) (*InboxWatcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch inbox dir: %w", err)
	}

	return &InboxWatcher{
		dir:         dir,
		importFn:    importFn,
		logger:      logger,
		settleDelay: DefaultSettleDelay,
		watcher:     fsw,
		pending:     make(map[string]*pendingFile),
		done:        make(chan struct{}),
	}, nil
}

// SetSettleDelay overrides the settle delay. Tests use short delays.
func (w *InboxWatcher) SetSettleDelay(d time.Duration) {
	w.settleDelay = d
}

// Start sweeps files already sitting in the inbox, then processes
// filesystem events until ctx is canceled or Stop is called.
func (w *InboxWatcher) Start(ctx context.Context) {
	w.sweep(ctx)

	w.wg.Add(1)
	go w.loop(ctx)
}

// sweep imports any PDFs that were dropped while the server was down.
func (w *InboxWatcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("failed to read inbox dir", "dir", w.dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		w.importFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *InboxWatcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

func (w *InboxWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !isPDF(event.Name) {
		return
	}

	if event.Op&fsnotify.Remove != 0 {
		w.cancelPending(event.Name)
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		w.startSettling(ctx, event.Name)
	}
}

// startSettling (re)arms the settle timer for a file.
func (w *InboxWatcher) startSettling(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, exists := w.pending[path]; exists {
		p.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		delete(w.pending, path)
		return
	}

	p := &pendingFile{
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	p.timer = time.AfterFunc(w.settleDelay, func() {
		w.checkSettled(ctx, path)
	})
	w.pending[path] = p
}

// checkSettled imports the file if its size and mtime stopped moving,
// otherwise restarts the timer.
func (w *InboxWatcher) checkSettled(ctx context.Context, path string) {
	w.mu.Lock()

	p, exists := w.pending[path]
	if !exists {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.settleDelay, func() {
			w.checkSettled(ctx, path)
		})
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	w.importFile(ctx, path)
}

// importFile reads a settled PDF, hands it to the importer, and removes
// it from the inbox on success. Failed files stay put so the problem is
// visible.
func (w *InboxWatcher) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read inbox file", "path", path, "error", err)
		return
	}

	if err := w.importFn(ctx, path, data); err != nil {
		w.logger.Warn("inbox import failed", "path", path, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn("failed to remove imported file", "path", path, "error", err)
		return
	}

	w.logger.Info("imported from inbox", "path", path)
}

func (w *InboxWatcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, exists := w.pending[path]; exists {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// Stop halts the watcher and cancels pending settles.
func (w *InboxWatcher) Stop() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)

	w.mu.Lock()
	for _, p := range w.pending {
		p.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
