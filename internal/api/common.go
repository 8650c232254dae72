package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
)

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// CoverResponse describes a book's rendered cover thumbnail.
type CoverResponse struct {
	Path     string `json:"path" doc:"Cover storage path"`
	BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder string"`
	Width    int    `json:"width" doc:"Cover width in pixels"`
	Height   int    `json:"height" doc:"Cover height in pixels"`
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID               string         `json:"id" doc:"Book ID"`
	Title            string         `json:"title" doc:"Book title"`
	Author           string         `json:"author,omitempty" doc:"Book author"`
	ShelfID          string         `json:"shelf_id" doc:"Shelf the book lives on"`
	PageCount        int            `json:"page_count" doc:"Total number of pages"`
	LastPage         int            `json:"last_page" doc:"Zero-based resume page"`
	TimeSpentSeconds uint64         `json:"time_spent_seconds" doc:"Lifetime reading seconds"`
	DailyTimeSeconds uint64         `json:"daily_time_seconds" doc:"Reading seconds today"`
	Stars            uint32         `json:"stars" doc:"Stars earned from reading time"`
	AnnotationCount  int            `json:"annotation_count" doc:"Number of annotations"`
	Cover            *CoverResponse `json:"cover,omitempty" doc:"Cover thumbnail, if rendered"`
	AddedAt          time.Time      `json:"added_at" doc:"Import time"`
	LastReadAt       *time.Time     `json:"last_read_at,omitempty" doc:"Most recent reading activity"`
}

func mapBookResponse(book *domain.Book) BookResponse {
	resp := BookResponse{
		ID:               book.ID,
		Title:            book.Title,
		Author:           book.Author,
		ShelfID:          book.ShelfID,
		PageCount:        book.PageCount,
		LastPage:         book.LastPage,
		TimeSpentSeconds: book.TimeSpentSeconds,
		DailyTimeSeconds: book.DailyTimeSeconds,
		Stars:            book.Stars,
		AnnotationCount:  len(book.Annotations),
		AddedAt:          book.AddedAt,
		LastReadAt:       book.LastReadAt,
	}
	if book.Cover != nil {
		resp.Cover = &CoverResponse{
			Path:     book.Cover.Path,
			BlurHash: book.Cover.BlurHash,
			Width:    book.Cover.Width,
			Height:   book.Cover.Height,
		}
	}
	return resp
}

// AnnotationResponse contains annotation data in API responses.
type AnnotationResponse struct {
	ID        string  `json:"id" doc:"Annotation ID"`
	Type      string  `json:"type" doc:"Annotation type: box, highlight, underline, or note"`
	PageIndex int     `json:"page_index" doc:"Zero-based page index"`
	X         float64 `json:"x" doc:"Left edge as a page percentage"`
	Y         float64 `json:"y" doc:"Top edge as a page percentage"`
	Width     float64 `json:"width,omitempty" doc:"Width as a page percentage"`
	Height    float64 `json:"height,omitempty" doc:"Height as a page percentage"`
	Color     string  `json:"color" doc:"Hex display color"`
	Title     string  `json:"title,omitempty" doc:"Note title"`
	Text      string  `json:"text,omitempty" doc:"Note body text"`
}

func mapAnnotationResponse(ann *domain.Annotation) AnnotationResponse {
	return AnnotationResponse{
		ID:        ann.ID,
		Type:      string(ann.Type),
		PageIndex: ann.PageIndex,
		X:         ann.X,
		Y:         ann.Y,
		Width:     ann.Width,
		Height:    ann.Height,
		Color:     ann.Color,
		Title:     ann.Title,
		Text:      ann.Text,
	}
}

// writeJSON renders a JSON response on a plain chi handler.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
