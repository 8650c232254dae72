package service

import (
	"context"
	"testing"
	"time"

	"github.com/sanctuaryapp/sanctuary-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_EmptyLibrary(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	svc := NewStatsService(st, testLogger())

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBooks)
	assert.Zero(t, stats.TotalStars)
	assert.Zero(t, stats.Streak)
}

func TestStatsService_Aggregates(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	started := domain.NewBook("book-1", "Started", "")
	started.PageCount = 100
	require.NoError(t, st.CreateBook(ctx, started))
	_, err := st.AddBookSeconds(ctx, "book-1", 1900, now) // 2 stars
	require.NoError(t, err)

	finished := domain.NewBook("book-2", "Finished", "")
	finished.PageCount = 10
	finished.LastPage = 9
	require.NoError(t, st.CreateBook(ctx, finished))
	_, err = st.AddBookSeconds(ctx, "book-2", 950, now) // 1 star
	require.NoError(t, err)

	untouched := domain.NewBook("book-3", "Untouched", "")
	untouched.PageCount = 5
	require.NoError(t, st.CreateBook(ctx, untouched))

	svc := NewStatsService(st, testLogger())
	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalBooks)
	assert.Equal(t, 2, stats.BooksStarted)
	assert.Equal(t, 1, stats.BooksFinished)
	assert.Equal(t, uint64(3), stats.TotalStars)
	assert.Equal(t, uint64(2850), stats.TotalSeconds)
	assert.Equal(t, uint64(2850), stats.TodaySeconds)
}

func TestHabitService_RefreshesOnRead(t *testing.T) {
	st, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	_, err := st.RecordReadingDay(ctx, time.Now())
	require.NoError(t, err)

	svc := NewHabitService(st, testLogger())
	habit, err := svc.GetHabit(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), habit.Streak)
}
