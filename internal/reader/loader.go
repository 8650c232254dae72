// Package reader implements a reading session: page loading and caching,
// interactive annotation placement, the reading timer, and page navigation.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sanctuaryapp/sanctuary-server/internal/reader/pdf"
)

// Renderer rasterizes pages on demand. *pdf.Document satisfies this.
type Renderer interface {
	PageCount() int
	RenderPage(pageIndex int) (*pdf.RenderedPage, error)
}

// pageEntry is a single slot in the page cache. claimed is guarded by
// the loader mutex; whoever sets it owns the render and the ready close.
type pageEntry struct {
	ready   chan struct{} // closed once page or err is set
	page    *pdf.RenderedPage
	err     error
	claimed bool
}

// Loader renders document pages exactly once each, nearest pages first,
// so the resume position is readable almost immediately while the rest
// of the document fills in behind it. Eager rendering stops after
// pdf.MaxPages pages; anything beyond that renders on first request.
type Loader struct {
	renderer Renderer
	logger   *slog.Logger
	entries  []*pageEntry
	order    []int
	eager    []bool

	mu      sync.Mutex
	ctx     context.Context
	started bool
}

// NewLoader creates a Loader that prioritizes pages around resumePage.
func NewLoader(renderer Renderer, resumePage int, logger *slog.Logger) *Loader {
	pageCount := renderer.PageCount()
	if resumePage < 0 || resumePage >= pageCount {
		resumePage = 0
	}

	entries := make([]*pageEntry, pageCount)
	for i := range entries {
		entries[i] = &pageEntry{ready: make(chan struct{})}
	}

	order := loadOrder(pageCount, resumePage)
	if len(order) > pdf.MaxPages {
		order = order[:pdf.MaxPages]
	}
	eager := make([]bool, pageCount)
	for _, idx := range order {
		eager[idx] = true
	}

	return &Loader{
		renderer: renderer,
		logger:   logger,
		entries:  entries,
		order:    order,
		eager:    eager,
	}
}

// Start launches the background render loop. Calling Start more than once
// is a no-op. Rendering stops when ctx is canceled; pages not yet rendered
// report the context error to any waiter.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.ctx = ctx
	l.mu.Unlock()

	go l.run(ctx)
}

func (l *Loader) run(ctx context.Context) {
	for _, idx := range l.order {
		if ctx.Err() != nil {
			l.abandon(ctx.Err())
			return
		}
		l.renderEntry(idx)
	}

	if l.logger != nil {
		l.logger.Debug("eager render pass complete",
			"pages", len(l.order),
			"total", len(l.entries),
		)
	}
}

// renderEntry claims and renders one page. A page already claimed by the
// eager loop or an earlier request is left alone, so each index is
// rendered at most once.
func (l *Loader) renderEntry(idx int) {
	entry := l.entries[idx]

	l.mu.Lock()
	if entry.claimed {
		l.mu.Unlock()
		return
	}
	entry.claimed = true
	l.mu.Unlock()

	page, err := l.renderer.RenderPage(idx)
	entry.page = page
	entry.err = err
	close(entry.ready)

	if err != nil && l.logger != nil {
		l.logger.Warn("page render failed", "page", idx, "error", err)
	}
}

// Request schedules a page beyond the eager cap for rendering. Pages
// inside the cap are left to the background sweep so the proximity
// order holds.
func (l *Loader) Request(pageIndex int) {
	if pageIndex < 0 || pageIndex >= len(l.entries) || l.eager[pageIndex] {
		return
	}

	l.mu.Lock()
	ctx := l.ctx
	started := l.started
	claimed := l.entries[pageIndex].claimed
	l.mu.Unlock()

	if !started || claimed || ctx.Err() != nil {
		return
	}
	go l.renderEntry(pageIndex)
}

// abandon fails every unclaimed entry with err. Claimed entries are
// mid-render and close their own ready channel when they finish.
func (l *Loader) abandon(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry.claimed {
			continue
		}
		entry.claimed = true
		entry.err = err
		close(entry.ready)
	}
}

// Page returns the rendered page, blocking until it is ready or ctx is done.
func (l *Loader) Page(ctx context.Context, pageIndex int) (*pdf.RenderedPage, error) {
	if pageIndex < 0 || pageIndex >= len(l.entries) {
		return nil, fmt.Errorf("page %d out of range [0, %d)", pageIndex, len(l.entries))
	}

	l.Request(pageIndex)

	entry := l.entries[pageIndex]
	select {
	case <-entry.ready:
		return entry.page, entry.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether a page has finished rendering.
func (l *Loader) Ready(pageIndex int) bool {
	if pageIndex < 0 || pageIndex >= len(l.entries) {
		return false
	}
	select {
	case <-l.entries[pageIndex].ready:
		return true
	default:
		return false
	}
}

// PageCount returns the number of pages managed by the loader.
func (l *Loader) PageCount() int {
	return len(l.entries)
}

// loadOrder produces the proximity-first render order: the resume page,
// then pages alternating outward (+1, -1, +2, -2, ...), then an ascending
// sweep of everything left.
func loadOrder(pageCount, resume int) []int {
	order := make([]int, 0, pageCount)
	seen := make([]bool, pageCount)

	push := func(idx int) {
		if idx >= 0 && idx < pageCount && !seen[idx] {
			seen[idx] = true
			order = append(order, idx)
		}
	}

	push(resume)
	for offset := 1; offset <= 3; offset++ {
		push(resume + offset)
		push(resume - offset)
	}
	for idx := 0; idx < pageCount; idx++ {
		push(idx)
	}

	return order
}
