package api

import (
	"github.com/sanctuaryapp/sanctuary-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Book   *service.BookService
	Shelf  *service.ShelfService
	Reader *service.ReaderService
	Habit  *service.HabitService
	Stats  *service.StatsService
	Search *service.SearchService
}
