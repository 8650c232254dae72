package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
)

// HabitService exposes the reading-habit streak.
type HabitService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHabitService creates a new habit service.
func NewHabitService(store *store.Store, logger *slog.Logger) *HabitService {
	return &HabitService{
		store:  store,
		logger: logger,
	}
}

// GetHabit returns the current streak state, recomputed as of now so
// stale shields and missed days are settled before the caller sees them.
func (s *HabitService) GetHabit(ctx context.Context) (*domain.Habit, error) {
	return s.store.RefreshHabit(ctx, time.Now())
}
