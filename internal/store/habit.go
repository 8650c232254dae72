package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/sanctuaryapp/sanctuary-server/internal/sse"
)

// habitKey is the singleton key for the habit record. Sanctuary is a
// single-reader tool, so there is exactly one habit history.
var habitKey = []byte("habit:singleton")

// GetHabit retrieves the habit record, returning a zero-value record
// if none has been saved yet.
func (s *Store) GetHabit(_ context.Context) (*domain.Habit, error) {
	var habit domain.Habit
	if err := s.get(habitKey, &habit); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return &domain.Habit{}, nil
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// RecordReadingDay marks a calendar day as read, recomputes the streak,
// and persists the result. Recording the same day twice is a no-op for
// the history but still refreshes the derived counters.
func (s *Store) RecordReadingDay(ctx context.Context, now time.Time) (*domain.Habit, error) {
	habit, err := s.GetHabit(ctx)
	if err != nil {
		return nil, err
	}

	newDay := habit.RecordDay(now.Format(time.DateOnly))
	habit.Recompute(now)

	if err := s.set(habitKey, habit); err != nil {
		return nil, fmt.Errorf("save habit: %w", err)
	}

	if newDay {
		if s.logger != nil {
			s.logger.Info("reading day recorded",
				"day", now.Format(time.DateOnly),
				"streak", habit.Streak,
				"shields", habit.Shields,
			)
		}
		s.eventEmitter.Emit(sse.NewHabitUpdatedEvent(habit))
	}

	return habit, nil
}

// RefreshHabit recomputes the streak against the current date without
// recording a new reading day. Called on read so a lapsed streak is
// reported accurately even before the next tick.
func (s *Store) RefreshHabit(ctx context.Context, now time.Time) (*domain.Habit, error) {
	habit, err := s.GetHabit(ctx)
	if err != nil {
		return nil, err
	}

	before := *habit
	habit.Recompute(now)

	if habit.Streak == before.Streak && habit.Shields == before.Shields &&
		habit.LastUpdated == before.LastUpdated {
		return habit, nil
	}

	if err := s.set(habitKey, habit); err != nil {
		return nil, fmt.Errorf("save habit: %w", err)
	}

	return habit, nil
}
