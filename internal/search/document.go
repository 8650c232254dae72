// Package search provides full-text search over the library using Bleve.
// Books and their annotations are indexed together so a single query finds
// a title, an author, or a note the reader wrote months ago.
package search

import (
	"fmt"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook       DocType = "book"
	DocTypeAnnotation DocType = "annotation"
)

// Document is the unified structure for the Bleve index. Books and
// annotations share one index with type discrimination; annotation
// documents denormalize the owning book's title so a hit can be
// displayed without a second lookup.
type Document struct {
	// Identity
	ID   string  `json:"id"`
	Type DocType `json:"type"`

	// Primary searchable text. Book: title. Annotation: note title.
	Name string `json:"name"`

	// Book fields (empty for annotations)
	Author string `json:"author,omitempty"`

	// Annotation fields (empty for books)
	Text      string `json:"text,omitempty"`
	BookID    string `json:"book_id,omitempty"`
	BookTitle string `json:"book_title,omitempty"`
	PageIndex int    `json:"page_index,omitempty"`

	// Numeric fields for sorting
	Stars   int   `json:"stars,omitempty"`
	AddedAt int64 `json:"added_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names so
// they match the Bleve index mapping.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":       d.ID,
		"type":     string(d.Type),
		"name":     d.Name,
		"added_at": d.AddedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Text != "" {
		m["text"] = d.Text
	}
	if d.BookID != "" {
		m["book_id"] = d.BookID
	}
	if d.BookTitle != "" {
		m["book_title"] = d.BookTitle
	}
	if d.Type == DocTypeAnnotation {
		m["page_index"] = d.PageIndex
	}
	if d.Stars > 0 {
		m["stars"] = d.Stars
	}

	return m
}

// BookDocuments converts a book and its annotations into index documents.
// The annotation document ID is namespaced under the book so a reindex
// can find and prune stale entries.
func BookDocuments(book *domain.Book) []*Document {
	docs := make([]*Document, 0, 1+len(book.Annotations))

	docs = append(docs, &Document{
		ID:      book.ID,
		Type:    DocTypeBook,
		Name:    book.Title,
		Author:  book.Author,
		Stars:   int(book.Stars),
		AddedAt: book.AddedAt.UnixMilli(),
	})

	for _, ann := range book.Annotations {
		docs = append(docs, &Document{
			ID:        AnnotationDocID(book.ID, ann.ID),
			Type:      DocTypeAnnotation,
			Name:      ann.Title,
			Text:      ann.Text,
			BookID:    book.ID,
			BookTitle: book.Title,
			PageIndex: ann.PageIndex,
			AddedAt:   book.AddedAt.UnixMilli(),
		})
	}

	return docs
}

// AnnotationDocID builds the index document ID for an annotation.
func AnnotationDocID(bookID, annotationID string) string {
	return fmt.Sprintf("%s/%s", bookID, annotationID)
}
