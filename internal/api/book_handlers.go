package api

import (
	"context"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	domainerrors "github.com/sanctuaryapp/sanctuary-server/internal/errors"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

// maxImportBytes caps uploaded PDFs at 256 MiB.
const maxImportBytes = 256 << 20

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns all books in the library, optionally filtered by shelf",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a single book with its reading state",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates a book's title, author, or shelf",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "wipeLibrary",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library",
		Summary:     "Wipe library",
		Description: "Removes every book, blob, cover, and search document. Shelves survive.",
		Tags:        []string{"Books"},
	}, s.handleWipeLibrary)

	// Import and cover streaming use chi directly: multipart bodies and
	// binary responses don't fit huma's typed handlers.
	s.router.With(rateLimitMiddleware(s.importLimiter, s.logger)).
		Post("/api/v1/books", s.handleImportBook)
	s.router.Get("/api/v1/books/{id}/cover", s.handleGetBookCover)
}

// === DTOs ===

type ListBooksInput struct {
	ShelfID string `query:"shelf_id" doc:"Restrict to books on this shelf"`
}

type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books in the library"`
	Total int            `json:"total" doc:"Number of books returned"`
}

type ListBooksOutput struct {
	Body ListBooksResponse
}

type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

type BookOutput struct {
	Body BookResponse
}

type UpdateBookRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"New title"`
	Author  *string `json:"author,omitempty" validate:"omitempty,max=500" doc:"New author"`
	ShelfID *string `json:"shelf_id,omitempty" doc:"Move the book to this shelf"`
}

type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

type WipeLibraryResponse struct {
	BooksRemoved int `json:"books_removed" doc:"Number of books removed"`
}

type WipeLibraryOutput struct {
	Body WipeLibraryResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx, input.ShelfID)
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, book := range books {
		resp[i] = mapBookResponse(book)
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp, Total: len(resp)}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, input.ID, service.BookPatch{
		Title:   input.Body.Title,
		Author:  input.Body.Author,
		ShelfID: input.Body.ShelfID,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleWipeLibrary(ctx context.Context, _ *struct{}) (*WipeLibraryOutput, error) {
	removed, err := s.services.Book.WipeLibrary(ctx)
	if err != nil {
		return nil, err
	}

	return &WipeLibraryOutput{Body: WipeLibraryResponse{BooksRemoved: removed}}, nil
}

// handleImportBook accepts a multipart PDF upload and imports it.
func (s *Server) handleImportBook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, domainerrors.Validation("multipart form must carry a PDF in the \"file\" field"), s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, domainerrors.Validation("failed to read uploaded file"), s.logger)
		return
	}

	book, err := s.services.Book.Import(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, mapBookResponse(book), s.logger)
}

// handleGetBookCover streams the cover thumbnail as JPEG.
func (s *Server) handleGetBookCover(w http.ResponseWriter, r *http.Request) {
	data, err := s.services.Book.GetCover(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}
