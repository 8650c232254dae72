package reader

import (
	"fmt"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/id"
)

// ToolMode selects what a pointer gesture means. In ModeView gestures are
// reserved for page turns; the other modes place annotations.
type ToolMode string

// Tool modes.
const (
	ModeView      ToolMode = "view"
	ModeHighlight ToolMode = "highlight"
	ModeUnderline ToolMode = "underline"
	ModeBox       ToolMode = "box"
	ModeNote      ToolMode = "note"
)

// DefaultAnnotationColor is applied when no color has been selected.
const DefaultAnnotationColor = "#FFD54F"

// Rect is a page-relative rectangle in percent coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AnnotationTool turns pointer gestures into committed annotations.
// A drag below the minimum commit size is discarded as an accidental tap.
// Not safe for concurrent use; each session owns exactly one tool.
type AnnotationTool struct {
	mode      ToolMode
	color     string
	dragging  bool
	pageIndex int
	startX    float64
	startY    float64
	curX      float64
	curY      float64
}

// NewAnnotationTool creates a tool in view mode.
func NewAnnotationTool() *AnnotationTool {
	return &AnnotationTool{mode: ModeView, color: DefaultAnnotationColor}
}

// SetMode switches the active tool mode. Switching mid-drag cancels the
// drag in progress.
func (t *AnnotationTool) SetMode(mode ToolMode) error {
	switch mode {
	case ModeView, ModeHighlight, ModeUnderline, ModeBox, ModeNote:
	default:
		return fmt.Errorf("unknown tool mode %q", mode)
	}
	t.mode = mode
	t.dragging = false
	return nil
}

// Mode returns the active tool mode.
func (t *AnnotationTool) Mode() ToolMode {
	return t.mode
}

// SetColor selects the color applied to subsequently committed annotations.
func (t *AnnotationTool) SetColor(color string) {
	if color != "" {
		t.color = color
	}
}

// Color returns the active annotation color.
func (t *AnnotationTool) Color() string {
	return t.color
}

// Dragging reports whether a drag is in progress.
func (t *AnnotationTool) Dragging() bool {
	return t.dragging
}

// PointerDown begins an interaction at page-relative percent coordinates.
// In view mode nothing happens (the gesture belongs to navigation). In
// note mode the tap commits a point marker immediately and the tool
// reverts to view; the returned annotation is non-nil in that case.
func (t *AnnotationTool) PointerDown(pageIndex int, x, y float64) *domain.Annotation {
	switch t.mode {
	case ModeView:
		return nil
	case ModeNote:
		// One-shot placement: commit on tap, then revert to view.
		t.mode = ModeView
		return &domain.Annotation{
			ID:        id.MustGenerate("ann"),
			Type:      domain.AnnotationNote,
			PageIndex: pageIndex,
			X:         domain.ClampPercent(x),
			Y:         domain.ClampPercent(y),
			Color:     t.color,
		}
	}

	t.dragging = true
	t.pageIndex = pageIndex
	t.startX, t.startY = domain.ClampPercent(x), domain.ClampPercent(y)
	t.curX, t.curY = t.startX, t.startY
	return nil
}

// PointerMove updates the live drag rectangle. Ignored when no drag is in
// progress.
func (t *AnnotationTool) PointerMove(x, y float64) {
	if !t.dragging {
		return
	}
	t.curX, t.curY = domain.ClampPercent(x), domain.ClampPercent(y)
}

// PointerUp completes the drag. Returns the committed annotation, or nil
// when the drag was too small to mean anything.
func (t *AnnotationTool) PointerUp() *domain.Annotation {
	if !t.dragging {
		return nil
	}
	t.dragging = false

	rect := t.dragRect()
	if rect.Width <= domain.MinCommitSize || rect.Height <= domain.MinCommitSize {
		// Accidental tap, nothing to commit.
		return nil
	}

	annType := domain.AnnotationHighlight
	switch t.mode {
	case ModeUnderline:
		annType = domain.AnnotationUnderline
		// An underline is a line, not an area.
		rect.Height = domain.UnderlineHeight
	case ModeBox:
		annType = domain.AnnotationBox
	}

	return &domain.Annotation{
		ID:        id.MustGenerate("ann"),
		Type:      annType,
		PageIndex: t.pageIndex,
		X:         rect.X,
		Y:         rect.Y,
		Width:     rect.Width,
		Height:    rect.Height,
		Color:     t.color,
	}
}

// Cancel abandons any drag in progress.
func (t *AnnotationTool) Cancel() {
	t.dragging = false
}

// CurrentRect returns the normalized drag rectangle for live preview.
// The zero Rect is returned when no drag is in progress.
func (t *AnnotationTool) CurrentRect() Rect {
	if !t.dragging {
		return Rect{}
	}
	return t.dragRect()
}

func (t *AnnotationTool) dragRect() Rect {
	x1, x2 := t.startX, t.curX
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	y1, y2 := t.startY, t.curY
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
