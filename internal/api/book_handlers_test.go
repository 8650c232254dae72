package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportBook_Success(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "deep_work.pdf", "Deep Work")

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Deep Work", book.Title)
	assert.Equal(t, 1, book.PageCount)
	assert.Equal(t, 0, book.LastPage)
	assert.Zero(t, book.Stars)
}

func TestImportBook_RejectsGarbage(t *testing.T) {
	server := setupTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "junk.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a pdf"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	apiErr := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "VALIDATION", apiErr["code"])
}

func TestImportBook_MissingFile(t *testing.T) {
	server := setupTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("name", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBooks(t *testing.T) {
	server := setupTestServer(t)

	importTestBook(t, server, "first.pdf", "First Book")
	importTestBook(t, server, "second.pdf", "Second Book")

	rec := doJSON(t, server, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[ListBooksResponse](t, rec)
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Books, 2)
}

func TestListBooks_FilterByShelf(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "first.pdf", "First Book")
	importTestBook(t, server, "second.pdf", "Second Book")

	rec := doJSON(t, server, http.MethodPost, "/api/v1/shelves", CreateShelfRequest{Name: "Fiction"})
	require.Equal(t, http.StatusOK, rec.Code)
	shelf := decodeBody[ShelfResponse](t, rec)

	rec = doJSON(t, server, http.MethodPatch, "/api/v1/books/"+book.ID, map[string]any{
		"shelf_id": shelf.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/books?shelf_id="+shelf.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[ListBooksResponse](t, rec)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, book.ID, list.Books[0].ID)
}

func TestGetBook(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "hobbit.pdf", "The Hobbit")

	rec := doJSON(t, server, http.MethodGet, "/api/v1/books/"+book.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[BookResponse](t, rec)
	assert.Equal(t, book.ID, got.ID)
	assert.Equal(t, "The Hobbit", got.Title)
}

func TestGetBook_NotFound(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/books/book_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	apiErr := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "NOT_FOUND", apiErr["code"])
}

func TestUpdateBook(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "draft.pdf", "Draft Title")

	rec := doJSON(t, server, http.MethodPatch, "/api/v1/books/"+book.ID, map[string]any{
		"title":  "Final Title",
		"author": "Jane Doe",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[BookResponse](t, rec)
	assert.Equal(t, "Final Title", got.Title)
	assert.Equal(t, "Jane Doe", got.Author)
}

func TestUpdateBook_UnknownShelf(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "draft.pdf", "Draft Title")

	rec := doJSON(t, server, http.MethodPatch, "/api/v1/books/"+book.ID, map[string]any{
		"shelf_id": "shelf_missing",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBookCover(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "covered.pdf", "Covered Book")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+book.ID+"/cover", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	body := rec.Body.Bytes()
	require.Greater(t, len(body), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, body[:2])
}

func TestGetBookCover_MissingBook(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/book_missing/cover", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteBookRoute_NotExposed(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "ephemeral.pdf", "Ephemeral")

	rec := doJSON(t, server, http.MethodDelete, "/api/v1/books/"+book.ID, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWipeLibrary(t *testing.T) {
	server := setupTestServer(t)

	importTestBook(t, server, "first.pdf", "First Book")
	importTestBook(t, server, "second.pdf", "Second Book")

	rec := doJSON(t, server, http.MethodDelete, "/api/v1/library", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	wiped := decodeBody[WipeLibraryResponse](t, rec)
	assert.Equal(t, 2, wiped.BooksRemoved)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[ListBooksResponse](t, rec)
	assert.Equal(t, 0, list.Total)
}
