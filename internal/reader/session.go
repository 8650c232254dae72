package reader

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sanctuaryapp/sanctuary-server/internal/id"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader/pdf"
)

// SessionConfig carries everything a reading session needs at open time.
type SessionConfig struct {
	BookID     string
	Document   *pdf.Document
	ResumePage int
	RTL        bool

	// OnTick persists each credited second. See TickFunc.
	OnTick TickFunc
	// OnPageChange persists the new resume position after navigation.
	OnPageChange PageChangeFunc

	Ambient *AmbientRegistry
	Logger  *slog.Logger
}

// Session is one open reader on one book. It owns the page loader, the
// annotation tool, the reading timer, the navigation cursor, and the
// exclusive ambient sound handle. Close tears all of them down.
type Session struct {
	ID     string
	BookID string

	Loader *Loader
	Tool   *AnnotationTool
	Timer  *Timer
	Nav    *Navigator

	ambient *AmbientRegistry
	logger  *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// NewSession assembles a session. Nothing runs until Start.
func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		ID:      id.MustGenerate("session"),
		BookID:  cfg.BookID,
		Loader:  NewLoader(cfg.Document, cfg.ResumePage, cfg.Logger),
		Tool:    NewAnnotationTool(),
		Timer:   NewTimer(cfg.OnTick, cfg.Logger),
		Nav:     NewNavigator(cfg.Document.PageCount(), cfg.ResumePage, cfg.RTL, cfg.OnPageChange),
		ambient: cfg.Ambient,
		logger:  cfg.Logger,
	}
	return s
}

// Start launches the background page loader and the reading timer, and
// takes the ambient handle. The session stops when Close is called or
// ctx is canceled.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil || s.closed {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	if s.ambient != nil {
		s.ambient.Acquire(s.ID)
	}

	s.Loader.Start(ctx)
	s.Timer.Start(ctx)

	if s.logger != nil {
		s.logger.Info("reading session started",
			"session_id", s.ID,
			"book_id", s.BookID,
			"resume_page", s.Nav.CurrentPage(),
			"pages", s.Loader.PageCount(),
		)
	}
}

// Close stops the timer, abandons outstanding renders, and releases the
// ambient handle. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s.ambient != nil {
		s.ambient.Release(s.ID)
	}

	if s.logger != nil {
		s.logger.Info("reading session closed",
			"session_id", s.ID,
			"book_id", s.BookID,
			"session_seconds", s.Timer.SessionSeconds(),
		)
	}
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
