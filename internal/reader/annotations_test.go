package reader

import (
	"testing"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationTool_ViewModeIgnoresPointer(t *testing.T) {
	tool := NewAnnotationTool()

	ann := tool.PointerDown(0, 10, 10)
	assert.Nil(t, ann)
	assert.False(t, tool.Dragging())
	assert.Nil(t, tool.PointerUp())
}

func TestAnnotationTool_HighlightDragCommits(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeHighlight))
	tool.SetColor("#FF0000")

	assert.Nil(t, tool.PointerDown(3, 10, 20))
	assert.True(t, tool.Dragging())

	tool.PointerMove(25, 28)
	rect := tool.CurrentRect()
	assert.InDelta(t, 10.0, rect.X, 1e-9)
	assert.InDelta(t, 20.0, rect.Y, 1e-9)
	assert.InDelta(t, 15.0, rect.Width, 1e-9)
	assert.InDelta(t, 8.0, rect.Height, 1e-9)

	ann := tool.PointerUp()
	require.NotNil(t, ann)
	assert.Equal(t, domain.AnnotationHighlight, ann.Type)
	assert.Equal(t, 3, ann.PageIndex)
	assert.Equal(t, "#FF0000", ann.Color)
	assert.True(t, ann.Valid())
	assert.NotEmpty(t, ann.ID)
}

func TestAnnotationTool_ReversedDragNormalizes(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeBox))

	tool.PointerDown(0, 40, 50)
	tool.PointerMove(10, 20)

	ann := tool.PointerUp()
	require.NotNil(t, ann)
	assert.InDelta(t, 10.0, ann.X, 1e-9)
	assert.InDelta(t, 20.0, ann.Y, 1e-9)
	assert.InDelta(t, 30.0, ann.Width, 1e-9)
	assert.InDelta(t, 30.0, ann.Height, 1e-9)
}

func TestAnnotationTool_SubThresholdDragDiscarded(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeHighlight))

	tool.PointerDown(0, 10, 10)
	tool.PointerMove(10.3, 10.3)

	assert.Nil(t, tool.PointerUp(), "a 0.3 percent drag is an accidental tap")
	assert.False(t, tool.Dragging())
}

func TestAnnotationTool_ThresholdNeedsBothDimensions(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeHighlight))

	// Wide but flat drag: width passes, height does not.
	tool.PointerDown(0, 10, 10)
	tool.PointerMove(50, 10.2)
	assert.Nil(t, tool.PointerUp())
}

func TestAnnotationTool_UnderlineHeightForced(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeUnderline))

	tool.PointerDown(1, 10, 40)
	tool.PointerMove(60, 48)

	ann := tool.PointerUp()
	require.NotNil(t, ann)
	assert.Equal(t, domain.AnnotationUnderline, ann.Type)
	assert.InDelta(t, domain.UnderlineHeight, ann.Height, 1e-9)
	assert.InDelta(t, 50.0, ann.Width, 1e-9)
}

func TestAnnotationTool_NoteIsOneShot(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeNote))

	ann := tool.PointerDown(2, 55, 66)
	require.NotNil(t, ann)
	assert.Equal(t, domain.AnnotationNote, ann.Type)
	assert.Zero(t, ann.Width)
	assert.Zero(t, ann.Height)
	assert.True(t, ann.Valid())

	// Tool reverts to view after placing a note.
	assert.Equal(t, ModeView, tool.Mode())
}

func TestAnnotationTool_CoordinatesClamped(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeNote))

	ann := tool.PointerDown(0, -5, 120)
	require.NotNil(t, ann)
	assert.InDelta(t, domain.CoordClampMin, ann.X, 1e-9)
	assert.InDelta(t, domain.CoordClampMax, ann.Y, 1e-9)
}

func TestAnnotationTool_SwitchingModeCancelsDrag(t *testing.T) {
	tool := NewAnnotationTool()
	require.NoError(t, tool.SetMode(ModeHighlight))

	tool.PointerDown(0, 10, 10)
	tool.PointerMove(40, 40)
	require.NoError(t, tool.SetMode(ModeBox))

	assert.False(t, tool.Dragging())
	assert.Nil(t, tool.PointerUp())
}

func TestAnnotationTool_InvalidMode(t *testing.T) {
	tool := NewAnnotationTool()
	assert.Error(t, tool.SetMode("scribble"))
}
