package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_AddSeconds_RecomputesStars(t *testing.T) {
	book := NewBook("book-1", "Dune", "Frank Herbert")
	now := time.Now()

	book.AddSeconds(899, now)
	assert.Equal(t, uint64(899), book.TimeSpentSeconds)
	assert.Equal(t, uint32(0), book.Stars)

	book.AddSeconds(1, now)
	assert.Equal(t, uint64(900), book.TimeSpentSeconds)
	assert.Equal(t, uint32(1), book.Stars)
}

func TestBook_AddSeconds_DailyCounterResetsOnNewDay(t *testing.T) {
	book := NewBook("book-1", "Dune", "")
	day1 := time.Date(2026, 3, 1, 21, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	book.AddSeconds(120, day1)
	assert.Equal(t, uint64(120), book.DailyTimeSeconds)
	assert.Equal(t, "2026-03-01", book.LastReadDate)

	book.AddSeconds(30, day2)
	assert.Equal(t, uint64(30), book.DailyTimeSeconds)
	assert.Equal(t, uint64(150), book.TimeSpentSeconds)
	assert.Equal(t, "2026-03-02", book.LastReadDate)
}

func TestBook_AddSeconds_SetsLastReadAt(t *testing.T) {
	book := NewBook("book-1", "Dune", "")
	now := time.Now()

	book.AddSeconds(1, now)

	require.NotNil(t, book.LastReadAt)
	assert.Equal(t, now, *book.LastReadAt)
}

func TestBook_SetLastPage_BoundsChecked(t *testing.T) {
	book := NewBook("book-1", "Dune", "")
	book.PageCount = 10

	assert.True(t, book.SetLastPage(0))
	assert.True(t, book.SetLastPage(9))
	assert.Equal(t, 9, book.LastPage)

	assert.False(t, book.SetLastPage(10))
	assert.False(t, book.SetLastPage(-1))
	assert.Equal(t, 9, book.LastPage)
}

func TestBook_RemoveAnnotation(t *testing.T) {
	book := NewBook("book-1", "Dune", "")
	book.Annotations = []Annotation{
		{ID: "ann-1", Type: AnnotationBox, PageIndex: 0, X: 10, Y: 10, Width: 5, Height: 5},
		{ID: "ann-2", Type: AnnotationNote, PageIndex: 1, X: 50, Y: 50},
	}

	assert.True(t, book.RemoveAnnotation("ann-1"))
	assert.Len(t, book.Annotations, 1)
	assert.Equal(t, "ann-2", book.Annotations[0].ID)

	assert.False(t, book.RemoveAnnotation("ann-1"))
}

func TestBook_AnnotationsForPage(t *testing.T) {
	book := NewBook("book-1", "Dune", "")
	book.Annotations = []Annotation{
		{ID: "ann-1", PageIndex: 0},
		{ID: "ann-2", PageIndex: 2},
		{ID: "ann-3", PageIndex: 0},
	}

	page0 := book.AnnotationsForPage(0)
	assert.Len(t, page0, 2)
	assert.Empty(t, book.AnnotationsForPage(1))
}
