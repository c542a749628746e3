package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	// The file now exists with owner-only permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second load reads it back instead of rewriting.
	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Listen = "0.0.0.0:9090"
	cfg.Timezone = "Asia/Seoul"
	cfg.CalendarName = "Fall Term"
	cfg.MergeToleranceMinutes = 10
	cfg.BasicAuth = &BasicAuthConfig{Username: "u", Password: "p"}
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := &Config{MergeToleranceMinutes: -5, DefaultReminderMinutes: -1}
	cfg.Normalize()

	require.Equal(t, "127.0.0.1:8080", cfg.Listen)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, "My Timetable", cfg.CalendarName)
	require.Equal(t, 15, cfg.MergeToleranceMinutes)
	require.Equal(t, 0, cfg.DefaultReminderMinutes)
	require.Equal(t, 60, cfg.DefaultDurationMinutes)
}

func TestLoadPartialConfigNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \"127.0.0.1:7070\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7070", cfg.Listen)
	require.Equal(t, "UTC", cfg.Timezone)
	require.Equal(t, 15, cfg.MergeToleranceMinutes)
}

func TestLoadRejectsEmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
