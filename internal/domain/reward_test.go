package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStarsForSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds uint64
		want    uint32
	}{
		{"zero", 0, 0},
		{"just under first star", 899, 0},
		{"exactly first star", 900, 1},
		{"just over first star", 901, 1},
		{"two stars", 1800, 2},
		{"many stars", 9000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StarsForSeconds(tt.seconds))
		})
	}
}

func TestStarsForSeconds_Monotone(t *testing.T) {
	var prev uint32
	for s := uint64(0); s <= 3600; s++ {
		got := StarsForSeconds(s)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestMinutesToNextStar(t *testing.T) {
	tests := []struct {
		name    string
		seconds uint64
		want    int
	}{
		{"fresh book has full interval", 0, 15},
		{"exact multiple resets to full interval", 900, 15},
		{"one second in", 1, 15},
		{"one minute left", 840, 1},
		{"last second still counts as a minute", 899, 1},
		{"halfway", 450, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinutesToNextStar(tt.seconds))
		})
	}
}

func TestStarProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, StarProgressPercent(0))
	assert.Equal(t, 0.0, StarProgressPercent(900))
	assert.Equal(t, 50.0, StarProgressPercent(450))
	assert.Equal(t, 50.0, StarProgressPercent(1350))
	assert.InDelta(t, 99.888, StarProgressPercent(899), 0.001)
}
