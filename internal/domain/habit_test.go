package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestHabit_RecordDay_Idempotent(t *testing.T) {
	h := &Habit{}

	assert.True(t, h.RecordDay("2026-03-01"))
	assert.False(t, h.RecordDay("2026-03-01"))
	assert.Len(t, h.History, 1)
}

func TestHabit_Recompute_SimpleStreak(t *testing.T) {
	h := &Habit{History: []string{"2026-03-01", "2026-03-02", "2026-03-03"}}

	h.Recompute(day("2026-03-03"))

	assert.Equal(t, uint32(3), h.Streak)
	assert.Equal(t, uint32(3), h.ConsecutiveFullDays)
	assert.Equal(t, uint32(0), h.Shields)
	assert.Empty(t, h.MissedDays)
}

func TestHabit_Recompute_MissWithoutShieldResetsStreak(t *testing.T) {
	// Read two days, skip one, read again.
	h := &Habit{History: []string{"2026-03-01", "2026-03-02", "2026-03-04"}}

	h.Recompute(day("2026-03-04"))

	assert.Equal(t, uint32(1), h.Streak)
	assert.Empty(t, h.MissedDays)
}

func TestHabit_Recompute_ShieldAbsorbsMiss(t *testing.T) {
	// Seven consecutive days earn a shield, then a miss consumes it.
	history := []string{
		"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04",
		"2026-03-05", "2026-03-06", "2026-03-07",
		// 2026-03-08 missed
		"2026-03-09",
	}
	h := &Habit{History: history}

	h.Recompute(day("2026-03-09"))

	assert.Equal(t, uint32(8), h.Streak, "streak preserved through shielded miss")
	assert.Equal(t, uint32(0), h.Shields, "shield consumed")
	assert.Equal(t, []string{"2026-03-08"}, h.MissedDays)
	assert.Equal(t, uint32(1), h.ConsecutiveFullDays, "consecutive counter restarts after a miss")
}

func TestHabit_Recompute_ShieldsCapAtThree(t *testing.T) {
	// 28 consecutive days would earn 4 shields without the cap.
	var history []string
	start := day("2026-02-01")
	for i := 0; i < 28; i++ {
		history = append(history, start.AddDate(0, 0, i).Format(time.DateOnly))
	}
	h := &Habit{History: history}

	h.Recompute(day("2026-02-28"))

	assert.Equal(t, uint32(MaxShields), h.Shields)
	assert.Equal(t, uint32(28), h.Streak)
}

func TestHabit_Recompute_UnreadTodayIsNotAMiss(t *testing.T) {
	h := &Habit{History: []string{"2026-03-01", "2026-03-02"}}

	// It's the morning of the 3rd and nothing has been read yet.
	h.Recompute(day("2026-03-03"))

	assert.Equal(t, uint32(2), h.Streak)
}

func TestHabit_Recompute_EmptyHistory(t *testing.T) {
	h := &Habit{}

	h.Recompute(day("2026-03-03"))

	assert.Equal(t, uint32(0), h.Streak)
	assert.Equal(t, "2026-03-03", h.LastUpdated)
}
