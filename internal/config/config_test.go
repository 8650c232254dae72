package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Import: ImportConfig{RatePerMinute: 20},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_ImportRate(t *testing.T) {
	cfg := validConfig()
	cfg.Import.RatePerMinute = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	abs, err := expandPath("/already/absolute", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/absolute", abs)

	def, err := expandPath("", "/the/default")
	require.NoError(t, err)
	assert.Equal(t, "/the/default", def)

	rel, err := expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(rel))
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "/some/path/db", cfg.DatabasePath())
	assert.Equal(t, "/some/path/search", cfg.SearchPath())
	assert.Equal(t, "/some/path", cfg.CoversPath())
}

func TestExpandInboxPath_Default(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.expandInboxPath())
	assert.Equal(t, "/some/path/inbox", cfg.Import.InboxPath)
}

func TestExpandAmbientPath_Default(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.expandAmbientPath())
	assert.Equal(t, "/some/path/ambient", cfg.Reader.AmbientPath)
}
