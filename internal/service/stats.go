package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/store"
)

// StatsService aggregates dashboard statistics across the library.
type StatsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// LibraryStats is the dashboard summary.
type LibraryStats struct {
	TotalBooks    int    `json:"total_books"`
	BooksStarted  int    `json:"books_started"`
	BooksFinished int    `json:"books_finished"`
	TotalStars    uint64 `json:"total_stars"`
	TotalSeconds  uint64 `json:"total_seconds"`
	TodaySeconds  uint64 `json:"today_seconds"`
	Annotations   int    `json:"annotations"`
	Streak        uint32 `json:"streak"`
	Shields       uint32 `json:"shields"`
}

// GetStats computes library-wide totals. A book counts as started once
// it has any reading time, and as finished once its resume position is
// the last page.
func (s *StatsService) GetStats(ctx context.Context) (*LibraryStats, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := now.Format(time.DateOnly)

	stats := &LibraryStats{
		TotalBooks: len(books),
	}

	for _, book := range books {
		stats.TotalStars += uint64(book.Stars)
		stats.TotalSeconds += book.TimeSpentSeconds
		stats.Annotations += len(book.Annotations)

		if book.TimeSpentSeconds > 0 {
			stats.BooksStarted++
		}
		if book.PageCount > 0 && book.LastPage == book.PageCount-1 {
			stats.BooksFinished++
		}
		if book.LastReadDate == today {
			stats.TodaySeconds += book.DailyTimeSeconds
		}
	}

	habit, err := s.store.RefreshHabit(ctx, now)
	if err != nil {
		s.logger.Warn("failed to refresh habit for stats", "error", err)
		habit = &domain.Habit{}
	}
	stats.Streak = habit.Streak
	stats.Shields = habit.Shields

	return stats, nil
}
