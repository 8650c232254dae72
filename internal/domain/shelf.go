package domain

import "time"

// DefaultShelfID is the sentinel shelf that can never be deleted. Deleting
// any other shelf re-parents its books here.
const DefaultShelfID = "default"

// Shelf is a named grouping of books.
type Shelf struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
}

// NewShelf creates a shelf with the given identity and display attributes.
func NewShelf(id, name, color string) *Shelf {
	now := time.Now()
	return &Shelf{
		ID:        id,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (s *Shelf) Touch() {
	s.UpdatedAt = time.Now()
}

// NewDefaultShelf returns the sentinel default shelf seeded on first use.
func NewDefaultShelf() *Shelf {
	now := time.Now()
	return &Shelf{
		ID:        DefaultShelfID,
		Name:      "My Books",
		Color:     "#8B7355",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsDefault reports whether this is the protected sentinel shelf.
func (s *Shelf) IsDefault() bool {
	return s.ID == DefaultShelfID
}
