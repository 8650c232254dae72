// Package pdf opens PDF documents and rasterizes their pages for the reader.
// It wraps pdfcpu for parsing and content extraction; a zero-indexed page
// API is exposed to the rest of the application even though pdfcpu itself
// numbers pages from one.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MaxPages caps how many pages a session renders ahead of demand.
// Oversized documents still open; pages beyond the cap render lazily.
const MaxPages = 300

// Default page geometry (US Letter in PDF points) used when a page has
// no resolvable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Document is an opened, validated PDF. It is safe for concurrent reads
// once constructed: all mutable pdfcpu state is consumed during Open.
type Document struct {
	pageText []string    // extracted text per page, zero-indexed
	pageDims []types.Dim // page dimensions in PDF points, zero-indexed
	title    string
}

// Open parses and validates a PDF from raw bytes.
// Corrupt or unparseable data returns an error; the caller decides how to
// surface that (imports reject the file, the reader shows a document error).
func Open(data []byte) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	if ctx.PageCount <= 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	doc := &Document{
		pageText: make([]string, ctx.PageCount),
		pageDims: make([]types.Dim, ctx.PageCount),
	}

	dims, err := ctx.PageDims()
	for i := 0; i < ctx.PageCount; i++ {
		if err == nil && i < len(dims) && dims[i].Width > 0 && dims[i].Height > 0 {
			doc.pageDims[i] = dims[i]
		} else {
			doc.pageDims[i] = types.Dim{Width: defaultPageWidth, Height: defaultPageHeight}
		}
	}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		doc.pageText[pageNr-1] = extractPageText(ctx, pageNr)
	}

	doc.title = firstLine(doc.pageText)

	return doc, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.pageText)
}

// PageText returns the extracted text of the zero-indexed page.
func (d *Document) PageText(pageIndex int) (string, error) {
	if pageIndex < 0 || pageIndex >= len(d.pageText) {
		return "", fmt.Errorf("page %d out of range [0, %d)", pageIndex, len(d.pageText))
	}
	return d.pageText[pageIndex], nil
}

// Title returns the first non-empty text line of the document, used as a
// fallback title when the import carries no explicit one.
func (d *Document) Title() string {
	return d.title
}

// extractPageText extracts text from a single PDF page via the pdfcpu
// content stream.
func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return extractTextFromStream(data)
}

// firstLine finds the first non-empty line across the page texts,
// truncated to a sane title length.
func firstLine(pages []string) string {
	for _, pageText := range pages {
		for _, line := range strings.Split(pageText, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if len(line) > 200 {
				line = line[:200]
			}
			return line
		}
	}
	return ""
}
