package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader/pdf"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
)

// ReaderService owns the map of open reading sessions. Opening a book
// assembles a session (page loader, annotation tool, timer, navigator,
// ambient handle); closing it tears everything down.
type ReaderService struct {
	store      *store.Store
	ambient    *reader.AmbientRegistry
	defaultRTL bool
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*reader.Session
}

// NewReaderService creates a new reader service. defaultRTL is the
// configured reading direction for sessions that do not pick one.
func NewReaderService(store *store.Store, ambient *reader.AmbientRegistry, defaultRTL bool, logger *slog.Logger) *ReaderService {
	return &ReaderService{
		store:      store,
		ambient:    ambient,
		defaultRTL: defaultRTL,
		logger:     logger,
		sessions:   make(map[string]*reader.Session),
	}
}

// Open starts a reading session on a book. A nil rtl falls back to the
// configured reading direction. A missing document blob or a corrupt
// PDF fails the open; no session is created and the caller should
// return to the library view.
func (s *ReaderService) Open(ctx context.Context, bookID string, rtl *bool) (*reader.Session, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	data, err := s.store.GetPDF(ctx, bookID)
	if err != nil {
		return nil, err
	}

	doc, err := pdf.Open(data)
	if err != nil {
		return nil, store.ErrBlobNotFound.WithMessage("document cannot be opened").WithCause(err)
	}

	direction := s.defaultRTL
	if rtl != nil {
		direction = *rtl
	}

	session := reader.NewSession(reader.SessionConfig{
		BookID:     bookID,
		Document:   doc,
		ResumePage: book.LastPage,
		RTL:        direction,
		OnTick:     s.tickFunc(bookID),
		OnPageChange: func(pageIndex int) {
			pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := s.store.UpdateBookPage(pctx, bookID, pageIndex); err != nil {
				s.logger.Warn("failed to persist resume page",
					"book_id", bookID,
					"page", pageIndex,
					"error", err,
				)
			}
		},
		Ambient: s.ambient,
		Logger:  s.logger,
	})

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	// The session must outlive the request that opened it; net/http
	// cancels ctx as soon as the handler returns. Close and CloseAll
	// remain the only ways to stop it.
	session.Start(context.WithoutCancel(ctx))
	return session, nil
}

// tickFunc credits one second of reading time per timer tick and records
// the day in the habit history.
func (s *ReaderService) tickFunc(bookID string) reader.TickFunc {
	return func(ctx context.Context, sessionSeconds uint64) {
		now := time.Now()
		if _, err := s.store.AddBookSeconds(ctx, bookID, 1, now); err != nil {
			s.logger.Warn("failed to credit reading second",
				"book_id", bookID,
				"error", err,
			)
			return
		}
		if _, err := s.store.RecordReadingDay(ctx, now); err != nil {
			s.logger.Warn("failed to record reading day",
				"book_id", bookID,
				"error", err,
			)
		}
	}
}

// Get returns an open session by ID.
func (s *ReaderService) Get(sessionID string) (*reader.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return session, nil
}

// Close tears down a session and forgets it.
func (s *ReaderService) Close(sessionID string) error {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return store.ErrSessionNotFound
	}
	session.Close()
	return nil
}

// CloseAll tears down every open session. Used at shutdown.
func (s *ReaderService) CloseAll() {
	s.mu.Lock()
	sessions := make([]*reader.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.sessions = make(map[string]*reader.Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// Page returns the rendered page, blocking until the background loader
// has produced it or ctx expires.
func (s *ReaderService) Page(ctx context.Context, sessionID string, pageIndex int) (*pdf.RenderedPage, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Loader.Page(ctx, pageIndex)
}

// PageReady reports whether a page has already been rendered.
func (s *ReaderService) PageReady(sessionID string, pageIndex int) (bool, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return false, err
	}
	if pageIndex < 0 || pageIndex >= session.Loader.PageCount() {
		return false, store.ErrInvalidInput.WithMessage("page index out of range")
	}
	// Pages past the eager render cap start rendering on first poll.
	session.Loader.Request(pageIndex)
	return session.Loader.Ready(pageIndex), nil
}

// PointerDown forwards a pointer-down to the annotation tool. A note
// tool commits immediately; the committed annotation is persisted and
// returned so the caller can open its edit dialog.
func (s *ReaderService) PointerDown(ctx context.Context, sessionID string, pageIndex int, x, y float64) (*domain.Annotation, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	ann := session.Tool.PointerDown(pageIndex, x, y)
	if ann == nil {
		return nil, nil
	}
	return s.persistAnnotation(ctx, session.BookID, ann)
}

// PointerMove forwards a pointer-move to the annotation tool.
func (s *ReaderService) PointerMove(sessionID string, x, y float64) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	session.Tool.PointerMove(x, y)
	return nil
}

// PointerUp ends a drag. If the gesture crossed the commit threshold the
// resulting annotation is persisted and returned, otherwise nil.
func (s *ReaderService) PointerUp(ctx context.Context, sessionID string) (*domain.Annotation, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	ann := session.Tool.PointerUp()
	if ann == nil {
		return nil, nil
	}
	return s.persistAnnotation(ctx, session.BookID, ann)
}

func (s *ReaderService) persistAnnotation(ctx context.Context, bookID string, ann *domain.Annotation) (*domain.Annotation, error) {
	if _, err := s.store.AddAnnotation(ctx, bookID, *ann); err != nil {
		return nil, err
	}
	return ann, nil
}

// SetTool switches the annotation tool mode.
func (s *ReaderService) SetTool(sessionID, mode string) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	if err := session.Tool.SetMode(reader.ToolMode(mode)); err != nil {
		return store.ErrInvalidInput.WithMessage(err.Error())
	}
	return nil
}

// SetColor switches the annotation color.
func (s *ReaderService) SetColor(sessionID, color string) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	session.Tool.SetColor(color)
	return nil
}

// AnnotationsForPage returns the annotations anchored to a page.
func (s *ReaderService) AnnotationsForPage(ctx context.Context, sessionID string, pageIndex int) ([]domain.Annotation, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, session.BookID)
	if err != nil {
		return nil, err
	}
	return book.AnnotationsForPage(pageIndex), nil
}

// UpdateAnnotation edits an annotation's note title, text, and color.
func (s *ReaderService) UpdateAnnotation(ctx context.Context, sessionID, annotationID, title, text, color string) (*domain.Annotation, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	book, err := s.store.UpdateAnnotationNote(ctx, session.BookID, annotationID, title, text, color)
	if err != nil {
		return nil, err
	}
	return book.AnnotationByID(annotationID), nil
}

// DeleteAnnotation removes an annotation.
func (s *ReaderService) DeleteAnnotation(ctx context.Context, sessionID, annotationID string) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	_, err = s.store.DeleteAnnotation(ctx, session.BookID, annotationID)
	return err
}

// GoTo moves the reading cursor to an absolute page.
func (s *ReaderService) GoTo(sessionID string, pageIndex int) (int, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return 0, err
	}
	session.Nav.GoTo(pageIndex)
	return session.Nav.CurrentPage(), nil
}

// Next advances one page.
func (s *ReaderService) Next(sessionID string) (int, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return 0, err
	}
	session.Nav.Next()
	return session.Nav.CurrentPage(), nil
}

// Previous goes back one page.
func (s *ReaderService) Previous(sessionID string) (int, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return 0, err
	}
	session.Nav.Previous()
	return session.Nav.CurrentPage(), nil
}

// JumpToPage moves to a 1-based page number.
func (s *ReaderService) JumpToPage(sessionID string, oneBased int) (int, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return 0, err
	}
	if !session.Nav.JumpToPage(oneBased) {
		return session.Nav.CurrentPage(), store.ErrInvalidInput.WithMessage("page number out of range")
	}
	return session.Nav.CurrentPage(), nil
}

// Swipe applies a horizontal swipe gesture.
func (s *ReaderService) Swipe(sessionID string, dx float64) (int, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return 0, err
	}
	session.Nav.HandleSwipe(dx)
	return session.Nav.CurrentPage(), nil
}

// SetVisible gates the reading timer on page visibility.
func (s *ReaderService) SetVisible(sessionID string, visible bool) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	session.Timer.SetVisible(visible)
	return nil
}

// Progress is a point-in-time snapshot of the reward state for one
// open session.
type Progress struct {
	SessionSeconds    uint64  `json:"session_seconds"`
	TotalSeconds      uint64  `json:"total_seconds"`
	DailySeconds      uint64  `json:"daily_seconds"`
	Stars             uint32  `json:"stars"`
	MinutesToNextStar int     `json:"minutes_to_next_star"`
	StarProgress      float64 `json:"star_progress_percent"`
	CurrentPage       int     `json:"current_page"`
	PageCount         int     `json:"page_count"`
}

// Progress reports reading progress and star state for a session.
func (s *ReaderService) Progress(ctx context.Context, sessionID string) (*Progress, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, session.BookID)
	if err != nil {
		return nil, err
	}

	return &Progress{
		SessionSeconds:    session.Timer.SessionSeconds(),
		TotalSeconds:      book.TimeSpentSeconds,
		DailySeconds:      book.DailyTimeSeconds,
		Stars:             book.Stars,
		MinutesToNextStar: domain.MinutesToNextStar(book.TimeSpentSeconds),
		StarProgress:      domain.StarProgressPercent(book.TimeSpentSeconds),
		CurrentPage:       session.Nav.CurrentPage(),
		PageCount:         session.Nav.TotalPages(),
	}, nil
}

// AmbientTracks lists the available ambient sound tracks.
func (s *ReaderService) AmbientTracks() []*reader.AmbientTrack {
	if s.ambient == nil {
		return nil
	}
	return s.ambient.Tracks()
}
