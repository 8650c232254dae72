// Package domain contains the core business entities and domain logic for the Sanctuary reading library.
package domain

import (
	"time"
)

// Book represents an imported PDF document in the library.
type Book struct {
	AddedAt    time.Time      `json:"added_at"`
	LastReadAt *time.Time     `json:"last_read_at,omitempty"`
	Cover      *CoverInfo     `json:"cover,omitempty"`
	ID         string         `json:"id"`
	ShelfID    string         `json:"shelf_id"`
	Title      string         `json:"title"`
	Author     string         `json:"author,omitempty"`
	// LastReadDate is the calendar day (YYYY-MM-DD) of the most recent tick,
	// used to reset the daily counter at day boundaries.
	LastReadDate     string       `json:"last_read_date,omitempty"`
	Annotations      []Annotation `json:"annotations"`
	TimeSpentSeconds uint64       `json:"time_spent_seconds"`
	DailyTimeSeconds uint64       `json:"daily_time_seconds"`
	Stars            uint32       `json:"stars"`
	LastPage         int          `json:"last_page"`
	PageCount        int          `json:"page_count"`
}

// CoverInfo describes the rendered cover thumbnail for a book.
type CoverInfo struct {
	Path     string `json:"path"`
	BlurHash string `json:"blur_hash,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// NewBook creates a freshly imported book with zeroed reading state.
func NewBook(id, title, author string) *Book {
	return &Book{
		ID:          id,
		ShelfID:     DefaultShelfID,
		Title:       title,
		Author:      author,
		AddedAt:     time.Now(),
		Annotations: []Annotation{},
	}
}

// AddSeconds credits reading time to the book and recomputes derived state.
// Stars are always recomputed from cumulative seconds so the invariant
// stars == timeSpentSeconds / StarThresholdSeconds holds after every update.
// The daily counter resets when the calendar day changes.
func (b *Book) AddSeconds(delta uint64, now time.Time) {
	today := now.Format(time.DateOnly)
	if b.LastReadDate != today {
		b.DailyTimeSeconds = 0
		b.LastReadDate = today
	}

	b.TimeSpentSeconds += delta
	b.DailyTimeSeconds += delta
	b.Stars = StarsForSeconds(b.TimeSpentSeconds)
	t := now
	b.LastReadAt = &t
}

// SetLastPage records the resume position. Out-of-range values are ignored
// so the invariant lastPage in [0, pageCount) is never violated by callers.
func (b *Book) SetLastPage(page int) bool {
	if page < 0 || (b.PageCount > 0 && page >= b.PageCount) {
		return false
	}
	b.LastPage = page
	return true
}

// AnnotationByID finds an annotation by its ID.
func (b *Book) AnnotationByID(id string) *Annotation {
	for i := range b.Annotations {
		if b.Annotations[i].ID == id {
			return &b.Annotations[i]
		}
	}
	return nil
}

// RemoveAnnotation removes an annotation by ID. Returns true if one was removed.
func (b *Book) RemoveAnnotation(id string) bool {
	for i := range b.Annotations {
		if b.Annotations[i].ID == id {
			b.Annotations = append(b.Annotations[:i], b.Annotations[i+1:]...)
			return true
		}
	}
	return false
}

// AnnotationsForPage returns the annotations anchored to the given page.
func (b *Book) AnnotationsForPage(pageIndex int) []Annotation {
	var out []Annotation
	for _, a := range b.Annotations {
		if a.PageIndex == pageIndex {
			out = append(out, a)
		}
	}
	return out
}
