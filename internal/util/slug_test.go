package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Left Hand of Darkness", "the-left-hand-of-darkness"},
		{"Crime & Punishment", "crime-punishment"},
		{"Café Society", "cafe-society"},
		{"  spaced   out  ", "spaced-out"},
		{"--already--slugged--", "already-slugged"},
		{"日本語タイトル", ""},
		{"Dune: Part 2", "dune-part-2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
