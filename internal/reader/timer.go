package reader

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TickFunc is invoked for every credited second with the session-local
// total. Implementations persist the one-second increment; a failed
// persist drops that second entirely, never a partial credit.
type TickFunc func(ctx context.Context, sessionSeconds uint64)

// Timer accumulates wall-clock reading time one second at a time.
// Ticks are gated on visibility: time is only credited while the reader
// is actually looking at the page. The design accepts under-counting
// over over-counting.
type Timer struct {
	onTick   TickFunc
	logger   *slog.Logger
	interval time.Duration

	mu             sync.Mutex
	visible        bool
	sessionSeconds uint64
	started        bool
}

// NewTimer creates a Timer that calls onTick for every credited second.
// The reader starts visible.
func NewTimer(onTick TickFunc, logger *slog.Logger) *Timer {
	return &Timer{
		onTick:   onTick,
		logger:   logger,
		interval: time.Second,
		visible:  true,
	}
}

// Start launches the tick loop. It stops when ctx is canceled. Calling
// Start more than once is a no-op.
func (t *Timer) Start(ctx context.Context) {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.run(ctx)
}

func (t *Timer) run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.tick(ctx)
		case <-ctx.Done():
			if t.logger != nil {
				t.logger.Debug("reading timer stopped",
					"session_seconds", t.SessionSeconds())
			}
			return
		}
	}
}

func (t *Timer) tick(ctx context.Context) {
	t.mu.Lock()
	if !t.visible {
		t.mu.Unlock()
		return
	}
	t.sessionSeconds++
	total := t.sessionSeconds
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(ctx, total)
	}
}

// SetVisible gates whether ticks are credited.
func (t *Timer) SetVisible(visible bool) {
	t.mu.Lock()
	t.visible = visible
	t.mu.Unlock()
}

// Visible reports the current visibility gate.
func (t *Timer) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}

// SessionSeconds returns the seconds credited this session.
func (t *Timer) SessionSeconds() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionSeconds
}
