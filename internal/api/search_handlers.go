package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sanctuaryapp/sanctuary-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the library",
		Description: "Full-text search across book titles, authors, and annotation text",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "rebuildSearchIndex",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/rebuild",
		Summary:     "Rebuild search index",
		Description: "Drops and rebuilds the search index from the library",
		Tags:        []string{"Search"},
	}, s.handleRebuildSearchIndex)
}

// === DTOs ===

type SearchInput struct {
	Query     string `query:"q" doc:"Search query"`
	Type      string `query:"type" enum:"book,annotation" doc:"Restrict to one document type"`
	BookID    string `query:"book_id" doc:"Restrict to one book and its annotations"`
	MinStars  int    `query:"min_stars" minimum:"0" doc:"Minimum earned stars (books only)"`
	Limit     int    `query:"limit" minimum:"1" maximum:"100" doc:"Maximum hits to return"`
	Offset    int    `query:"offset" minimum:"0" doc:"Hits to skip for pagination"`
	SortBy    string `query:"sort_by" enum:"relevance,title,author,recent,stars" doc:"Sort field"`
	SortOrder string `query:"sort_order" enum:"asc,desc" doc:"Sort direction"`
}

type SearchOutput struct {
	Body search.SearchResult
}

type RebuildIndexResponse struct {
	BooksIndexed int `json:"books_indexed" doc:"Number of books indexed"`
}

type RebuildIndexOutput struct {
	Body RebuildIndexResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.BookID = input.BookID
	params.MinStars = input.MinStars
	if input.Type != "" {
		params.Types = []string{input.Type}
	}
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}
	if input.SortBy != "" {
		params.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		params.SortOrder = input.SortOrder
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}

func (s *Server) handleRebuildSearchIndex(ctx context.Context, _ *struct{}) (*RebuildIndexOutput, error) {
	indexed, err := s.services.Search.RebuildIndex(ctx)
	if err != nil {
		return nil, err
	}

	return &RebuildIndexOutput{Body: RebuildIndexResponse{BooksIndexed: indexed}}, nil
}
