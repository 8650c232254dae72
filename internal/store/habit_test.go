package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHabit_EmptyByDefault(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	habit, err := store.GetHabit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, habit.History)
	assert.Equal(t, uint32(0), habit.Streak)
}

func TestRecordReadingDay(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	habit, err := store.RecordReadingDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), habit.Streak)
	assert.Contains(t, habit.History, "2026-03-14")

	// Recording the same day again is idempotent.
	habit, err = store.RecordReadingDay(ctx, day)
	require.NoError(t, err)
	assert.Len(t, habit.History, 1)
	assert.Equal(t, uint32(1), habit.Streak)
}

func TestRecordReadingDay_ConsecutiveDays(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var streak uint32
	for i := 0; i < 7; i++ {
		habit, err := store.RecordReadingDay(ctx, start.AddDate(0, 0, i))
		require.NoError(t, err)
		streak = habit.Streak
	}
	assert.Equal(t, uint32(7), streak)

	habit, err := store.GetHabit(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), habit.Shields, "seven consecutive days bank one shield")
}

func TestRefreshHabit_MissedDayConsumesShield(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		_, err := store.RecordReadingDay(ctx, start.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	// March 8 passes with no reading and March 9 is still in progress.
	// The one full missed day consumes the shield while the streak survives.
	habit, err := store.RefreshHabit(ctx, start.AddDate(0, 0, 8))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), habit.Shields)
	assert.Equal(t, uint32(7), habit.Streak)
	assert.Contains(t, habit.MissedDays, "2026-03-08")
}

func TestRefreshHabit_PersistsRecompute(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	_, err := store.RecordReadingDay(ctx, day)
	require.NoError(t, err)

	// A long gap without shields resets the streak, and the reset sticks.
	habit, err := store.RefreshHabit(ctx, day.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), habit.Streak)

	habit, err = store.GetHabit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-19", habit.LastUpdated)
}
