// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/janderssonse/pacsift/internal/config"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[search]
timeout = "10s"
include_aur = false
default_repositories = ["core", "extra"]

[resolver]
concurrency = 4
lookup_timeout = "2s"

[pacman]
aur_helper = "paru"

[log]
level = "debug"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Search.Timeout.Std())
	assert.False(t, cfg.Search.IncludeAUR)
	assert.Equal(t, 4, cfg.Resolver.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Resolver.LookupTimeout.Std())
	assert.Equal(t, "paru", cfg.Pacman.AURHelper)
	assert.Equal(t, "pacman", cfg.Pacman.Binary, "unset keys keep their defaults")
	assert.Equal(t, "https://archlinux.org", cfg.Index.OfficialURL)

	repos, err := cfg.Repositories()
	require.NoError(t, err)
	assert.Equal(t, []domain.Repository{domain.RepoCore, domain.RepoExtra}, repos)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[search]\nquery = \"vim\"\n", "invalid configuration"},
		{"bad duration", "[search]\ntimeout = \"soon\"\n", "failed to parse config"},
		{"negative timeout", "[search]\ntimeout = \"-1s\"\n", "search.timeout"},
		{"unknown repository", "[search]\ndefault_repositories = [\"testing\"]\n", "testing"},
		{"zero concurrency", "[resolver]\nconcurrency = 0\n", "resolver.concurrency"},
		{"inverted breakpoints", "[grid]\nwide = 60\nmedium = 80\n", "grid"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad url", "[index]\naur_url = \"ftp://aur\"\n", "index.aur_url"},
		{"broken toml", "[search\n", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchTimeoutZeroDisablesBound(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	assert.Equal(t, 30*time.Second, cfg.SearchTimeout())

	cfg.Search.Timeout = 0
	assert.Negative(t, cfg.SearchTimeout())
}

func TestBreakpointsDefaultToTerminalCells(t *testing.T) {
	t.Parallel()

	assert.Equal(t, grid.TerminalBreakpoints, config.Defaults().Breakpoints())
}

func TestLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	cfg := config.Defaults()
	assert.Equal(t, "/xdg/state/pacsift/pacsift.log", cfg.LogPath())

	cfg.Log.Path = "$XDG_STATE_HOME/custom.log"
	assert.Equal(t, "/xdg/state/custom.log", cfg.LogPath())
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Search.DefaultRepositories = []string{"AUR"}
	cfg.Resolver.Concurrency = 3

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "30s")
	assert.Contains(t, buf.String(), "[resolver]")

	loaded, err := config.Load(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
