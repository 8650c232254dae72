package api

import (
	"bytes"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sanctuaryapp/sanctuary-server/internal/media/covers"
	"github.com/sanctuaryapp/sanctuary-server/internal/ratelimit"
	"github.com/sanctuaryapp/sanctuary-server/internal/reader"
	"github.com/sanctuaryapp/sanctuary-server/internal/search"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a test server with all dependencies on a
// temporary data directory.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "sanctuary-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)

	sseManager := sse.NewManager(logger)
	sseHandler := sse.NewHandler(sseManager, logger)

	st, err := store.New(filepath.Join(tmpDir, "db"), logger, sseManager)
	require.NoError(t, err)

	index, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   logger,
	})
	require.NoError(t, err)
	st.SetSearchIndexer(index)

	coverStorage, err := covers.NewStorage(tmpDir)
	require.NoError(t, err)

	ambient := reader.NewAmbientRegistry(logger)

	services := &Services{
		Book:   service.NewBookService(st, covers.NewGenerator(coverStorage, logger), logger),
		Shelf:  service.NewShelfService(st, logger),
		Reader: service.NewReaderService(st, ambient, false, logger),
		Habit:  service.NewHabitService(st, logger),
		Stats:  service.NewStatsService(st, logger),
		Search: service.NewSearchService(st, index, logger),
	}

	limiter := ratelimit.New(1000, 1000)

	server := NewServer(st, services, sseHandler, sseManager, limiter, logger)

	t.Cleanup(func() {
		services.Reader.CloseAll()
		limiter.Stop()
		_ = index.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return server
}

// doJSON issues a request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// importTestBook uploads a PDF through the import endpoint and returns
// the created book.
func importTestBook(t *testing.T, server *Server, filename, text string) BookResponse {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(buildTextPDF(text))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeBody[BookResponse](t, rec)
}

// buildTextPDF creates a minimal valid single-page PDF.
func buildTextPDF(text string) []byte {
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + text + ") Tj\nET"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")

	offsets[4] = b.Len()
	b.WriteString(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream))

	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 6\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		b.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	b.WriteString(fmt.Sprintf("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset))

	return []byte(b.String())
}
