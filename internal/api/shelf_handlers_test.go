package api

import (
	"net/http"
	"testing"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListShelves_IncludesDefault(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/shelves", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[ListShelvesResponse](t, rec)
	require.Len(t, list.Shelves, 1)
	assert.Equal(t, domain.DefaultShelfID, list.Shelves[0].ID)
}

func TestCreateShelf(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/shelves", CreateShelfRequest{
		Name:  "Philosophy",
		Color: "#80CBC4",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	shelf := decodeBody[ShelfResponse](t, rec)
	assert.NotEmpty(t, shelf.ID)
	assert.Equal(t, "Philosophy", shelf.Name)
	assert.Equal(t, "#80CBC4", shelf.Color)
}

func TestCreateShelf_MissingName(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/shelves", map[string]any{
		"color": "#80CBC4",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateShelf_BadColor(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/shelves", CreateShelfRequest{
		Name:  "Philosophy",
		Color: "teal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	apiErr := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "VALIDATION", apiErr["code"])
}

func TestUpdateShelf(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/shelves", CreateShelfRequest{Name: "History"})
	require.Equal(t, http.StatusOK, rec.Code)
	shelf := decodeBody[ShelfResponse](t, rec)

	rec = doJSON(t, server, http.MethodPatch, "/api/v1/shelves/"+shelf.ID, map[string]any{
		"name":  "Ancient History",
		"color": "#FFAB91",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeBody[ShelfResponse](t, rec)
	assert.Equal(t, "Ancient History", updated.Name)
	assert.Equal(t, "#FFAB91", updated.Color)
}

func TestUpdateShelf_NotFound(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodPatch, "/api/v1/shelves/shelf_missing", map[string]any{
		"name": "Ghost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteShelf_ReparentsBooks(t *testing.T) {
	server := setupTestServer(t)

	book := importTestBook(t, server, "nomad.pdf", "Nomad")

	rec := doJSON(t, server, http.MethodPost, "/api/v1/shelves", CreateShelfRequest{Name: "Doomed"})
	require.Equal(t, http.StatusOK, rec.Code)
	shelf := decodeBody[ShelfResponse](t, rec)

	rec = doJSON(t, server, http.MethodPatch, "/api/v1/books/"+book.ID, map[string]any{
		"shelf_id": shelf.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodDelete, "/api/v1/shelves/"+shelf.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/books/"+book.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[BookResponse](t, rec)
	assert.Equal(t, domain.DefaultShelfID, got.ShelfID)
}

func TestDeleteDefaultShelf_Rejected(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodDelete, "/api/v1/shelves/"+domain.DefaultShelfID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
