package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShelves",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves",
		Summary:     "List shelves",
		Description: "Returns all shelves, including the default shelf",
		Tags:        []string{"Shelves"},
	}, s.handleListShelves)

	huma.Register(s.api, huma.Operation{
		OperationID: "createShelf",
		Method:      http.MethodPost,
		Path:        "/api/v1/shelves",
		Summary:     "Create shelf",
		Description: "Creates a new shelf",
		Tags:        []string{"Shelves"},
	}, s.handleCreateShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShelf",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Update shelf",
		Description: "Updates a shelf's name or color",
		Tags:        []string{"Shelves"},
	}, s.handleUpdateShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Delete shelf",
		Description: "Deletes a shelf and moves its books to the default shelf",
		Tags:        []string{"Shelves"},
	}, s.handleDeleteShelf)
}

// === DTOs ===

type ShelfResponse struct {
	ID        string    `json:"id" doc:"Shelf ID"`
	Name      string    `json:"name" doc:"Display name"`
	Color     string    `json:"color,omitempty" doc:"Hex display color"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last modification time"`
}

type ListShelvesResponse struct {
	Shelves []ShelfResponse `json:"shelves" doc:"All shelves"`
}

type ListShelvesOutput struct {
	Body ListShelvesResponse
}

type CreateShelfRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=60" doc:"Display name"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Hex display color"`
}

type CreateShelfInput struct {
	Body CreateShelfRequest
}

type ShelfOutput struct {
	Body ShelfResponse
}

type UpdateShelfRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=60" doc:"New display name"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"New hex display color"`
}

type UpdateShelfInput struct {
	ID   string `path:"id" doc:"Shelf ID"`
	Body UpdateShelfRequest
}

type DeleteShelfInput struct {
	ID string `path:"id" doc:"Shelf ID"`
}

func mapShelfResponse(shelf *domain.Shelf) ShelfResponse {
	return ShelfResponse{
		ID:        shelf.ID,
		Name:      shelf.Name,
		Color:     shelf.Color,
		CreatedAt: shelf.CreatedAt,
		UpdatedAt: shelf.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListShelves(ctx context.Context, _ *struct{}) (*ListShelvesOutput, error) {
	shelves, err := s.services.Shelf.ListShelves(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]ShelfResponse, len(shelves))
	for i, shelf := range shelves {
		resp[i] = mapShelfResponse(shelf)
	}

	return &ListShelvesOutput{Body: ListShelvesResponse{Shelves: resp}}, nil
}

func (s *Server) handleCreateShelf(ctx context.Context, input *CreateShelfInput) (*ShelfOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.CreateShelf(ctx, input.Body.Name, input.Body.Color)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleUpdateShelf(ctx context.Context, input *UpdateShelfInput) (*ShelfOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.UpdateShelf(ctx, input.ID, service.ShelfPatch{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleDeleteShelf(ctx context.Context, input *DeleteShelfInput) (*MessageOutput, error) {
	if err := s.services.Shelf.DeleteShelf(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "shelf deleted"}}, nil
}
