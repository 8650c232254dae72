package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Render tuning. Pages render at RenderScale pixels per PDF point, which
// doubles a US Letter page to 1224x1584 for crisp display on dense screens.
const (
	RenderScale = 2.0
	jpegQuality = 85

	marginPoints     = 36.0 // half-inch text margin
	lineSpacingRatio = 1.4
)

// RenderedPage is a rasterized page ready to hand to a client.
type RenderedPage struct {
	JPEG      []byte
	Width     int
	Height    int
	PageIndex int
}

// RenderPage rasterizes the zero-indexed page to a JPEG image.
// Text is drawn onto a white canvas line by line; the output preserves the
// page's aspect ratio so annotation percentages map cleanly onto it.
func (d *Document) RenderPage(pageIndex int) (*RenderedPage, error) {
	if pageIndex < 0 || pageIndex >= len(d.pageText) {
		return nil, fmt.Errorf("page %d out of range [0, %d)", pageIndex, len(d.pageText))
	}

	dim := d.pageDims[pageIndex]
	width := int(dim.Width * RenderScale)
	height := int(dim.Height * RenderScale)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	d.paintText(canvas, d.pageText[pageIndex])

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", pageIndex, err)
	}

	return &RenderedPage{
		PageIndex: pageIndex,
		JPEG:      buf.Bytes(),
		Width:     width,
		Height:    height,
	}, nil
}

// paintText lays the page text onto the canvas with a fixed-width face,
// wrapping at the right margin.
func (d *Document) paintText(canvas *image.RGBA, text string) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	margin := int(marginPoints * RenderScale)
	maxWidth := canvas.Bounds().Dx() - 2*margin
	if maxWidth <= 0 {
		return
	}

	lineHeight := int(float64(face.Metrics().Height.Ceil()) * lineSpacingRatio)
	maxY := canvas.Bounds().Dy() - margin

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	y := margin + face.Metrics().Ascent.Ceil()
	for _, line := range wrapLines(text, face, maxWidth) {
		if y > maxY {
			break
		}
		drawer.Dot = fixed.P(margin, y)
		drawer.DrawString(line)
		y += lineHeight
	}
}

// wrapLines splits text into lines that fit within maxWidth pixels.
func wrapLines(text string, face font.Face, maxWidth int) []string {
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if font.MeasureString(face, candidate).Ceil() > maxWidth {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}

	return lines
}
