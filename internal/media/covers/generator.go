package covers

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/bbrks/go-blurhash"
	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader/pdf"
)

// Cover geometry.
const (
	// coverWidth is the target thumbnail width in pixels. First pages
	// render far larger than a shelf tile ever displays.
	coverWidth = 480

	// blurHashSize is the target size for BlurHash computation.
	// BlurHash is a low-resolution placeholder; a small thumbnail
	// produces nearly identical results in milliseconds.
	blurHashSize = 64

	thumbnailQuality = 80
)

// Generator renders first-page cover thumbnails for imported books.
type Generator struct {
	storage *Storage
	logger  *slog.Logger
}

// NewGenerator creates a new cover Generator.
func NewGenerator(storage *Storage, logger *slog.Logger) *Generator {
	return &Generator{
		storage: storage,
		logger:  logger,
	}
}

// Storage exposes the underlying cover file store.
func (g *Generator) Storage() *Storage {
	return g.storage
}

// Generate renders the first page of doc, stores the thumbnail, and
// returns cover metadata including the BlurHash placeholder.
func (g *Generator) Generate(doc *pdf.Document, bookID string) (*domain.CoverInfo, error) {
	page, err := doc.RenderPage(0)
	if err != nil {
		return nil, fmt.Errorf("render first page: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(page.JPEG))
	if err != nil {
		return nil, fmt.Errorf("decode rendered page: %w", err)
	}

	thumb := resizeToWidth(img, coverWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	if err := g.storage.Save(bookID, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("save cover: %w", err)
	}

	// 4 horizontal, 3 vertical components - sweet spot for page thumbnails.
	hash, err := blurhash.Encode(4, 3, resizeToWidth(thumb, blurHashSize))
	if err != nil {
		// A cover without a placeholder is still a cover.
		if g.logger != nil {
			g.logger.Warn("failed to compute blurhash", "book_id", bookID, "error", err)
		}
		hash = ""
	}

	bounds := thumb.Bounds()
	info := &domain.CoverInfo{
		Path:     g.storage.Path(bookID),
		BlurHash: hash,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}

	if g.logger != nil {
		g.logger.Debug("cover generated",
			"book_id", bookID,
			"width", info.Width,
			"height", info.Height,
			"bytes", buf.Len(),
		)
	}

	return info, nil
}

// resizeToWidth scales an image to the given width preserving aspect
// ratio. Nearest-neighbor sampling is fast and sufficient for thumbnails.
func resizeToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= width {
		return img
	}

	height := srcHeight * width / srcWidth
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcY := bounds.Min.Y + y*srcHeight/height
		for x := 0; x < width; x++ {
			srcX := bounds.Min.X + x*srcWidth/width
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}
