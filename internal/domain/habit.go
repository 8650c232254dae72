package domain

import (
	"slices"
	"time"
)

// Shield and streak tuning.
const (
	// MaxShields caps the grace tokens a reader can bank.
	MaxShields = 3
	// ShieldEarnInterval is how many consecutive reading days earn one shield.
	ShieldEarnInterval = 7
)

// Habit aggregates reading-day history into a streak with a shield mechanic.
// It is fully derived: Recompute rebuilds it from the set of days on which
// any book was read.
type Habit struct {
	History             []string `json:"history"`     // days with reading activity (YYYY-MM-DD)
	MissedDays          []string `json:"missed_days"` // days a shield absorbed
	LastUpdated         string   `json:"last_updated"`
	Shields             uint32   `json:"shields"`
	Streak              uint32   `json:"streak"`
	ConsecutiveFullDays uint32   `json:"consecutive_full_days"`
}

// RecordDay adds a reading day to the history if not already present.
// Returns true if the day was new.
func (h *Habit) RecordDay(day string) bool {
	if slices.Contains(h.History, day) {
		return false
	}
	h.History = append(h.History, day)
	slices.Sort(h.History)
	return true
}

// Recompute walks the history from the first reading day up to (and
// including) yesterday relative to today, applying the streak rules:
//
//   - a reading day extends the streak and the consecutive-day counter;
//   - every ShieldEarnInterval consecutive reading days bank one shield
//     (capped at MaxShields);
//   - a missed day consumes a shield if one is banked (streak preserved,
//     consecutive counter reset), otherwise the streak resets to zero.
//
// Today extends the streak only if already read; an unread today is not a
// miss yet.
func (h *Habit) Recompute(today time.Time) {
	todayStr := today.Format(time.DateOnly)

	read := make(map[string]bool, len(h.History))
	for _, d := range h.History {
		read[d] = true
	}

	h.Shields = 0
	h.Streak = 0
	h.ConsecutiveFullDays = 0
	h.MissedDays = h.MissedDays[:0]
	h.LastUpdated = todayStr

	if len(h.History) == 0 {
		return
	}

	start, err := time.Parse(time.DateOnly, h.History[0])
	if err != nil {
		return
	}

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		dayStr := day.Format(time.DateOnly)

		if read[dayStr] {
			h.Streak++
			h.ConsecutiveFullDays++
			if h.ConsecutiveFullDays%ShieldEarnInterval == 0 && h.Shields < MaxShields {
				h.Shields++
			}
			continue
		}

		if dayStr == todayStr {
			// Not read yet today; the streak survives until midnight.
			break
		}

		if h.Shields > 0 {
			h.Shields--
			h.MissedDays = append(h.MissedDays, dayStr)
			h.ConsecutiveFullDays = 0
		} else {
			h.Streak = 0
			h.ConsecutiveFullDays = 0
		}
	}
}
