package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHabitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHabit",
		Method:      http.MethodGet,
		Path:        "/api/v1/habit",
		Summary:     "Get reading habit",
		Description: "Returns the current streak, shields, and reading history",
		Tags:        []string{"Habit"},
	}, s.handleGetHabit)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get library statistics",
		Description: "Returns library-wide reading totals",
		Tags:        []string{"Habit"},
	}, s.handleGetStats)
}

// === DTOs ===

type HabitResponse struct {
	Streak     uint32   `json:"streak" doc:"Consecutive reading days"`
	Shields    uint32   `json:"shields" doc:"Streak shields available"`
	History    []string `json:"history" doc:"Days with reading activity (YYYY-MM-DD)"`
	MissedDays []string `json:"missed_days" doc:"Days a shield absorbed"`
}

type HabitOutput struct {
	Body HabitResponse
}

type StatsResponse struct {
	TotalBooks    int    `json:"total_books" doc:"Books in the library"`
	BooksStarted  int    `json:"books_started" doc:"Books with any reading time"`
	BooksFinished int    `json:"books_finished" doc:"Books read to the last page"`
	TotalStars    uint64 `json:"total_stars" doc:"Stars earned across all books"`
	TotalSeconds  uint64 `json:"total_seconds" doc:"Lifetime reading seconds"`
	TodaySeconds  uint64 `json:"today_seconds" doc:"Reading seconds today"`
	Annotations   int    `json:"annotations" doc:"Annotations across all books"`
	Streak        uint32 `json:"streak" doc:"Consecutive reading days"`
	Shields       uint32 `json:"shields" doc:"Streak shields available"`
}

type StatsOutput struct {
	Body StatsResponse
}

// === Handlers ===

func (s *Server) handleGetHabit(ctx context.Context, _ *struct{}) (*HabitOutput, error) {
	habit, err := s.services.Habit.GetHabit(ctx)
	if err != nil {
		return nil, err
	}

	history := habit.History
	if history == nil {
		history = []string{}
	}
	missed := habit.MissedDays
	if missed == nil {
		missed = []string{}
	}

	return &HabitOutput{
		Body: HabitResponse{
			Streak:     habit.Streak,
			Shields:    habit.Shields,
			History:    history,
			MissedDays: missed,
		},
	}, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Stats.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{
		Body: StatsResponse{
			TotalBooks:    stats.TotalBooks,
			BooksStarted:  stats.BooksStarted,
			BooksFinished: stats.BooksFinished,
			TotalStars:    stats.TotalStars,
			TotalSeconds:  stats.TotalSeconds,
			TodaySeconds:  stats.TodaySeconds,
			Annotations:   stats.Annotations,
			Streak:        stats.Streak,
			Shields:       stats.Shields,
		},
	}, nil
}
