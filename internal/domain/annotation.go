package domain

// AnnotationType identifies the kind of spatial markup.
type AnnotationType string

// Annotation kinds.
const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationBox       AnnotationType = "box"
	AnnotationNote      AnnotationType = "note"
)

// Geometry constants for interactive annotation placement. All values are
// percentages of the rendered page's bounding box.
const (
	// CoordClampMin / CoordClampMax keep a committed shape fully paintable
	// inside the page.
	CoordClampMin = 0.1
	CoordClampMax = 99.9

	// MinCommitSize is the drag size below which a pointer-up is treated as
	// an accidental tap and discarded.
	MinCommitSize = 0.4

	// UnderlineHeight is the committed height of an underline regardless of
	// drag height. An underline is a line, not an area.
	UnderlineHeight = 0.8
)

// Annotation is a spatial, page-anchored markup object. Coordinates are
// percentages of the rendered page's bounding box. Note annotations are point
// markers and carry no width/height.
type Annotation struct {
	ID        string         `json:"id"`
	Type      AnnotationType `json:"type"`
	PageIndex int            `json:"page_index"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Width     float64        `json:"width,omitempty"`
	Height    float64        `json:"height,omitempty"`
	Color     string         `json:"color"`
	Title     string         `json:"title,omitempty"`
	Text      string         `json:"text,omitempty"`
}

// Valid reports whether the annotation satisfies its geometric invariants.
func (a *Annotation) Valid() bool {
	if a.X < CoordClampMin || a.X > CoordClampMax || a.Y < CoordClampMin || a.Y > CoordClampMax {
		return false
	}
	switch a.Type {
	case AnnotationNote:
		return a.Width == 0 && a.Height == 0
	case AnnotationHighlight, AnnotationBox, AnnotationUnderline:
		return a.Width > 0 && a.Height > 0
	default:
		return false
	}
}

// ClampPercent clamps a raw page-relative percentage into the paintable
// range [CoordClampMin, CoordClampMax].
func ClampPercent(v float64) float64 {
	if v < CoordClampMin {
		return CoordClampMin
	}
	if v > CoordClampMax {
		return CoordClampMax
	}
	return v
}

// IsValidType reports whether s names a known annotation type.
func IsValidType(s string) bool {
	switch AnnotationType(s) {
	case AnnotationHighlight, AnnotationUnderline, AnnotationBox, AnnotationNote:
		return true
	}
	return false
}
