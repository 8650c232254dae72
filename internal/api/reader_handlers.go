package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	domainerrors "github.com/sanctuaryapp/sanctuary-server/internal/errors"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

func (s *Server) registerReaderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "openSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{bookID}",
		Summary:     "Open reading session",
		Description: "Opens a reading session on a book, resuming at the last read page",
		Tags:        []string{"Reader"},
	}, s.handleOpenSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "closeSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reader/{sessionID}",
		Summary:     "Close reading session",
		Description: "Closes a session, stopping the timer, loader, and ambient playback",
		Tags:        []string{"Reader"},
	}, s.handleCloseSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "pointerEvent",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/pointer",
		Summary:     "Send pointer event",
		Description: "Feeds a pointer down/move/up event to the annotation tool",
		Tags:        []string{"Reader"},
	}, s.handlePointerEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTool",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/tool",
		Summary:     "Set annotation tool",
		Description: "Switches the annotation tool mode",
		Tags:        []string{"Reader"},
	}, s.handleSetTool)

	huma.Register(s.api, huma.Operation{
		OperationID: "setColor",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/color",
		Summary:     "Set annotation color",
		Description: "Changes the color used for new annotations",
		Tags:        []string{"Reader"},
	}, s.handleSetColor)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPageAnnotations",
		Method:      http.MethodGet,
		Path:        "/api/v1/reader/{sessionID}/annotations",
		Summary:     "List page annotations",
		Description: "Returns the annotations on one page of the open book",
		Tags:        []string{"Reader"},
	}, s.handleListPageAnnotations)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAnnotation",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reader/{sessionID}/annotations/{id}",
		Summary:     "Update annotation",
		Description: "Updates an annotation's note title, text, or color",
		Tags:        []string{"Reader"},
	}, s.handleUpdateAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAnnotation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reader/{sessionID}/annotations/{id}",
		Summary:     "Delete annotation",
		Description: "Removes an annotation from the open book",
		Tags:        []string{"Reader"},
	}, s.handleDeleteAnnotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "gotoPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/goto",
		Summary:     "Go to page",
		Description: "Moves the cursor to a zero-based page index",
		Tags:        []string{"Reader"},
	}, s.handleGoTo)

	huma.Register(s.api, huma.Operation{
		OperationID: "nextPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/next",
		Summary:     "Next page",
		Tags:        []string{"Reader"},
	}, s.handleNext)

	huma.Register(s.api, huma.Operation{
		OperationID: "previousPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/previous",
		Summary:     "Previous page",
		Tags:        []string{"Reader"},
	}, s.handlePrevious)

	huma.Register(s.api, huma.Operation{
		OperationID: "jumpToPage",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/jump",
		Summary:     "Jump to page",
		Description: "Moves the cursor to a one-based page number, as typed by the reader",
		Tags:        []string{"Reader"},
	}, s.handleJump)

	huma.Register(s.api, huma.Operation{
		OperationID: "swipe",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/swipe",
		Summary:     "Swipe",
		Description: "Turns the page from a horizontal swipe, honoring reading direction",
		Tags:        []string{"Reader"},
	}, s.handleSwipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "setVisibility",
		Method:      http.MethodPost,
		Path:        "/api/v1/reader/{sessionID}/visibility",
		Summary:     "Set visibility",
		Description: "Reports whether the reader is visible; reading time only accrues while visible",
		Tags:        []string{"Reader"},
	}, s.handleSetVisibility)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/reader/{sessionID}/progress",
		Summary:     "Get reading progress",
		Description: "Returns session and lifetime reading time, stars, and position",
		Tags:        []string{"Reader"},
	}, s.handleGetProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAmbientTracks",
		Method:      http.MethodGet,
		Path:        "/api/v1/ambient",
		Summary:     "List ambient tracks",
		Description: "Returns the background sounds available while reading",
		Tags:        []string{"Reader"},
	}, s.handleListAmbientTracks)

	// Page images stream as JPEG through chi directly.
	s.router.Get("/api/v1/reader/{sessionID}/pages/{index}", s.handleGetPage)
}

// === DTOs ===

type OpenSessionRequest struct {
	RTL *bool `json:"rtl,omitempty" doc:"Open in right-to-left reading direction; omitted means the server's configured default"`
}

type OpenSessionInput struct {
	BookID string `path:"bookID" doc:"Book ID"`
	Body   OpenSessionRequest
}

type SessionResponse struct {
	ID          string `json:"id" doc:"Session ID"`
	BookID      string `json:"book_id" doc:"Book being read"`
	CurrentPage int    `json:"current_page" doc:"Zero-based cursor position"`
	PageCount   int    `json:"page_count" doc:"Total pages"`
	ToolMode    string `json:"tool_mode" doc:"Active annotation tool"`
	ToolColor   string `json:"tool_color" doc:"Active annotation color"`
	RTL         bool   `json:"rtl" doc:"Right-to-left reading direction"`
}

type SessionOutput struct {
	Body SessionResponse
}

type SessionInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
}

type PointerRequest struct {
	Event     string  `json:"event" validate:"required,oneof=down move up" doc:"Pointer phase"`
	PageIndex int     `json:"page_index,omitempty" doc:"Zero-based page under the pointer (down only)"`
	X         float64 `json:"x,omitempty" doc:"Horizontal position as a page percentage"`
	Y         float64 `json:"y,omitempty" doc:"Vertical position as a page percentage"`
}

type PointerInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      PointerRequest
}

type PointerResponse struct {
	Annotation *AnnotationResponse `json:"annotation,omitempty" doc:"Annotation committed by this event, if any"`
}

type PointerOutput struct {
	Body PointerResponse
}

type SetToolRequest struct {
	Mode string `json:"mode" validate:"required" doc:"Tool mode: view, box, highlight, underline, or note"`
}

type SetToolInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      SetToolRequest
}

type SetColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor" doc:"Hex annotation color"`
}

type SetColorInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      SetColorRequest
}

type ListAnnotationsInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Page      int    `query:"page" doc:"Zero-based page index"`
}

type ListAnnotationsResponse struct {
	Annotations []AnnotationResponse `json:"annotations" doc:"Annotations on the page"`
}

type ListAnnotationsOutput struct {
	Body ListAnnotationsResponse
}

type UpdateAnnotationRequest struct {
	Title string `json:"title,omitempty" validate:"max=200" doc:"New note title"`
	Text  string `json:"text,omitempty" validate:"max=10000" doc:"New note body"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"New display color"`
}

type UpdateAnnotationInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	ID        string `path:"id" doc:"Annotation ID"`
	Body      UpdateAnnotationRequest
}

type AnnotationOutput struct {
	Body AnnotationResponse
}

type DeleteAnnotationInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	ID        string `path:"id" doc:"Annotation ID"`
}

type GoToRequest struct {
	Page int `json:"page" doc:"Zero-based page index"`
}

type GoToInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      GoToRequest
}

type JumpRequest struct {
	Page int `json:"page" validate:"required,min=1" doc:"One-based page number"`
}

type JumpInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      JumpRequest
}

type SwipeRequest struct {
	DX float64 `json:"dx" doc:"Horizontal swipe delta; sign selects direction"`
}

type SwipeInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      SwipeRequest
}

type NavResponse struct {
	CurrentPage int `json:"current_page" doc:"Zero-based cursor position after the move"`
}

type NavOutput struct {
	Body NavResponse
}

type VisibilityRequest struct {
	Visible bool `json:"visible" doc:"Whether the reader is on screen"`
}

type VisibilityInput struct {
	SessionID string `path:"sessionID" doc:"Session ID"`
	Body      VisibilityRequest
}

type ProgressResponse struct {
	SessionSeconds    uint64  `json:"session_seconds" doc:"Seconds read in this session"`
	TotalSeconds      uint64  `json:"total_seconds" doc:"Lifetime seconds on this book"`
	DailySeconds      uint64  `json:"daily_seconds" doc:"Seconds read today on this book"`
	Stars             uint32  `json:"stars" doc:"Stars earned from reading time"`
	MinutesToNextStar int     `json:"minutes_to_next_star" doc:"Whole minutes until the next star"`
	StarProgress      float64 `json:"star_progress_percent" doc:"Progress toward the next star, 0 to 100"`
	CurrentPage       int     `json:"current_page" doc:"Zero-based cursor position"`
	PageCount         int     `json:"page_count" doc:"Total pages"`
}

type ProgressOutput struct {
	Body ProgressResponse
}

type AmbientTrackResponse struct {
	ID       string `json:"id" doc:"Track ID"`
	Name     string `json:"name" doc:"Display name"`
	Format   string `json:"format" doc:"Audio container format"`
	Duration string `json:"duration,omitempty" doc:"Track length"`
}

type ListAmbientTracksResponse struct {
	Tracks []AmbientTrackResponse `json:"tracks" doc:"Available ambient tracks"`
}

type ListAmbientTracksOutput struct {
	Body ListAmbientTracksResponse
}

func mapSessionResponse(session *reader.Session) SessionResponse {
	return SessionResponse{
		ID:          session.ID,
		BookID:      session.BookID,
		CurrentPage: session.Nav.CurrentPage(),
		PageCount:   session.Nav.TotalPages(),
		ToolMode:    string(session.Tool.Mode()),
		ToolColor:   session.Tool.Color(),
		RTL:         session.Nav.RTL(),
	}
}

// === Handlers ===

func (s *Server) handleOpenSession(ctx context.Context, input *OpenSessionInput) (*SessionOutput, error) {
	session, err := s.services.Reader.Open(ctx, input.BookID, input.Body.RTL)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleCloseSession(_ context.Context, input *SessionInput) (*MessageOutput, error) {
	if err := s.services.Reader.Close(input.SessionID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "session closed"}}, nil
}

func (s *Server) handlePointerEvent(ctx context.Context, input *PointerInput) (*PointerOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var committed *AnnotationResponse

	switch input.Body.Event {
	case "down":
		ann, err := s.services.Reader.PointerDown(ctx, input.SessionID, input.Body.PageIndex, input.Body.X, input.Body.Y)
		if err != nil {
			return nil, err
		}
		if ann != nil {
			resp := mapAnnotationResponse(ann)
			committed = &resp
		}
	case "move":
		if err := s.services.Reader.PointerMove(input.SessionID, input.Body.X, input.Body.Y); err != nil {
			return nil, err
		}
	case "up":
		ann, err := s.services.Reader.PointerUp(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}
		if ann != nil {
			resp := mapAnnotationResponse(ann)
			committed = &resp
		}
	}

	return &PointerOutput{Body: PointerResponse{Annotation: committed}}, nil
}

func (s *Server) handleSetTool(_ context.Context, input *SetToolInput) (*MessageOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Reader.SetTool(input.SessionID, input.Body.Mode); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "tool set"}}, nil
}

func (s *Server) handleSetColor(_ context.Context, input *SetColorInput) (*MessageOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Reader.SetColor(input.SessionID, input.Body.Color); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "color set"}}, nil
}

func (s *Server) handleListPageAnnotations(ctx context.Context, input *ListAnnotationsInput) (*ListAnnotationsOutput, error) {
	annotations, err := s.services.Reader.AnnotationsForPage(ctx, input.SessionID, input.Page)
	if err != nil {
		return nil, err
	}

	resp := make([]AnnotationResponse, len(annotations))
	for i := range annotations {
		resp[i] = mapAnnotationResponse(&annotations[i])
	}

	return &ListAnnotationsOutput{Body: ListAnnotationsResponse{Annotations: resp}}, nil
}

func (s *Server) handleUpdateAnnotation(ctx context.Context, input *UpdateAnnotationInput) (*AnnotationOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ann, err := s.services.Reader.UpdateAnnotation(ctx, input.SessionID, input.ID, input.Body.Title, input.Body.Text, input.Body.Color)
	if err != nil {
		return nil, err
	}

	return &AnnotationOutput{Body: mapAnnotationResponse(ann)}, nil
}

func (s *Server) handleDeleteAnnotation(ctx context.Context, input *DeleteAnnotationInput) (*MessageOutput, error) {
	if err := s.services.Reader.DeleteAnnotation(ctx, input.SessionID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "annotation deleted"}}, nil
}

func (s *Server) handleGoTo(_ context.Context, input *GoToInput) (*NavOutput, error) {
	page, err := s.services.Reader.GoTo(input.SessionID, input.Body.Page)
	if err != nil {
		return nil, err
	}

	return &NavOutput{Body: NavResponse{CurrentPage: page}}, nil
}

func (s *Server) handleNext(_ context.Context, input *SessionInput) (*NavOutput, error) {
	page, err := s.services.Reader.Next(input.SessionID)
	if err != nil {
		return nil, err
	}

	return &NavOutput{Body: NavResponse{CurrentPage: page}}, nil
}

func (s *Server) handlePrevious(_ context.Context, input *SessionInput) (*NavOutput, error) {
	page, err := s.services.Reader.Previous(input.SessionID)
	if err != nil {
		return nil, err
	}

	return &NavOutput{Body: NavResponse{CurrentPage: page}}, nil
}

func (s *Server) handleJump(_ context.Context, input *JumpInput) (*NavOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	page, err := s.services.Reader.JumpToPage(input.SessionID, input.Body.Page)
	if err != nil {
		return nil, err
	}

	return &NavOutput{Body: NavResponse{CurrentPage: page}}, nil
}

func (s *Server) handleSwipe(_ context.Context, input *SwipeInput) (*NavOutput, error) {
	page, err := s.services.Reader.Swipe(input.SessionID, input.Body.DX)
	if err != nil {
		return nil, err
	}

	return &NavOutput{Body: NavResponse{CurrentPage: page}}, nil
}

func (s *Server) handleSetVisibility(_ context.Context, input *VisibilityInput) (*MessageOutput, error) {
	if err := s.services.Reader.SetVisible(input.SessionID, input.Body.Visible); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "visibility set"}}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, input *SessionInput) (*ProgressOutput, error) {
	progress, err := s.services.Reader.Progress(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &ProgressOutput{Body: mapProgressResponse(progress)}, nil
}

func (s *Server) handleListAmbientTracks(_ context.Context, _ *struct{}) (*ListAmbientTracksOutput, error) {
	tracks := s.services.Reader.AmbientTracks()

	resp := make([]AmbientTrackResponse, len(tracks))
	for i, track := range tracks {
		resp[i] = AmbientTrackResponse{
			ID:       track.ID,
			Name:     track.Name,
			Format:   track.Format,
			Duration: track.Duration.String(),
		}
	}

	return &ListAmbientTracksOutput{Body: ListAmbientTracksResponse{Tracks: resp}}, nil
}

func mapProgressResponse(p *service.Progress) ProgressResponse {
	return ProgressResponse{
		SessionSeconds:    p.SessionSeconds,
		TotalSeconds:      p.TotalSeconds,
		DailySeconds:      p.DailySeconds,
		Stars:             p.Stars,
		MinutesToNextStar: p.MinutesToNextStar,
		StarProgress:      p.StarProgress,
		CurrentPage:       p.CurrentPage,
		PageCount:         p.PageCount,
	}
}

// handleGetPage streams a rendered page as JPEG, or 202 while the
// background loader has not reached it yet.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	pageIndex, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, domainerrors.Validation("page index must be an integer"), s.logger)
		return
	}

	ready, err := s.services.Reader.PageReady(sessionID, pageIndex)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	if !ready {
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":     "rendering",
			"page_index": pageIndex,
		}, s.logger)
		return
	}

	page, err := s.services.Reader.Page(r.Context(), sessionID, pageIndex)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Page-Width", strconv.Itoa(page.Width))
	w.Header().Set("X-Page-Height", strconv.Itoa(page.Height))
	_, _ = w.Write(page.JPEG)
}
