// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes args against a fixed index where htop is installed.
func runCLI(t *testing.T, configPath string, args ...string) cliRun {
	t.Helper()

	provider := testutil.NewStaticProvider().
		Add("htop",
			testutil.Package("htop", domain.RepoExtra),
			testutil.Package("htop-vim", domain.RepoAUR),
		).
		Fail("broken", errors.New("dial tcp: connection refused"))

	var stdout, stderr bytes.Buffer

	app := NewCLIWithOptions(Options{
		Stdout:   &stdout,
		Stderr:   &stderr,
		Provider: provider,
		Store:    testutil.NewGatedStore("htop"),
		Width:    120,
	})

	if configPath == "" {
		configPath = filepath.Join(t.TempDir(), "config.toml")
	}

	argv := append([]string{"pacsift", "--config", configPath}, args...)
	err := app.Run(context.Background(), argv)

	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return ExitSuccess
	}

	var exitErr *domain.ExitError
	require.ErrorAs(t, err, &exitErr)

	return exitErr.Code
}

func TestSearchTextTable(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "search", "htop")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "STATUS")
	assert.True(t, strings.HasPrefix(lines[2], "htop "))
	assert.Contains(t, lines[2], "installed")
	assert.True(t, strings.HasPrefix(lines[3], "htop-vim "))
	assert.Contains(t, lines[3], "AUR")
	assert.NotContains(t, lines[3], "installed")
}

func TestSearchStructuredOutput(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, "", "search", "--output", "json", "htop")
		require.NoError(t, res.err)

		var report domain.SearchReport
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))

		assert.Equal(t, "htop", report.Query)
		assert.Equal(t, 2, report.Total)
		require.Len(t, report.Packages, 2)
		assert.Equal(t, "htop", report.Packages[0].Name)
		assert.True(t, report.Packages[0].Installed)
		assert.Equal(t, domain.RepoAUR, report.Packages[1].Repository)
		assert.False(t, report.Packages[1].Installed)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		res := runCLI(t, "", "search", "-o", "yaml", "htop")
		require.NoError(t, res.err)

		assert.Contains(t, res.stdout, "query: htop")
		assert.Contains(t, res.stdout, "name: htop-vim")
		assert.Contains(t, res.stdout, "installed: true")
	})
}

func TestSearchRepositoryFilter(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "--repo", "aur", "search", "--output", "json", "htop")
	require.NoError(t, res.err)

	var report domain.SearchReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))

	assert.Equal(t, []domain.Repository{domain.RepoAUR}, report.Filters)
	require.Len(t, report.Packages, 1)
	assert.Equal(t, "htop-vim", report.Packages[0].Name)
}

func TestSearchGrid(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "search", "--grid", "htop")
	require.NoError(t, res.err)

	assert.Equal(t, 2, strings.Count(res.stdout, "╭"))
	assert.Contains(t, res.stdout, "htop-vim")
	assert.Contains(t, res.stdout, "Installed")
}

func TestSearchExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "no results", args: []string{"search", "nothing"}, code: ExitNotFoundError},
		{name: "filter hides everything", args: []string{"--repo", "core", "search", "htop"}, code: ExitNotFoundError},
		{name: "index unavailable", args: []string{"search", "broken"}, code: ExitNetworkError},
		{name: "blank query", args: []string{"search", "   "}, code: ExitUsageError},
		{name: "missing query", args: []string{"search"}, code: ExitUsageError},
		{name: "unknown format", args: []string{"search", "--output", "xml", "htop"}, code: ExitUsageError},
		{name: "unknown repository", args: []string{"--repo", "testing", "search", "htop"}, code: ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, tt.code, exitCode(t, res.err))
		})
	}
}

func TestSearchStructuredErrorReport(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "search", "-o", "json", "nothing")
	assert.Equal(t, ExitNotFoundError, exitCode(t, res.err))

	var report domain.SearchReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))

	assert.Equal(t, "nothing", report.Query)
	assert.Equal(t, "No results found", report.Error)
	assert.Empty(t, report.Packages)
}

func TestNetworkErrorMessage(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "search", "broken")

	var exitErr *domain.ExitError
	require.ErrorAs(t, res.err, &exitErr)
	assert.Contains(t, exitErr.Message, "Network connection failed")
	assert.ErrorIs(t, res.err, domain.ErrProvider)
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "--no-aur", "--timeout", "10s", "config")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "[search]")
	assert.Contains(t, res.stdout, "include_aur = false")
	assert.Contains(t, res.stdout, "10s")
	assert.Contains(t, res.stdout, "[resolver]")
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	res := runCLI(t, path, "config", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "official_url")

	res = runCLI(t, path, "config", "init")
	assert.Equal(t, ExitConfigError, exitCode(t, res.err))
	assert.ErrorIs(t, res.err, ErrConfigExists)

	res = runCLI(t, path, "config", "init", "--force")
	require.NoError(t, res.err)

	// the written defaults load back cleanly
	res = runCLI(t, path, "config")
	require.NoError(t, res.err)
}

func TestConfigPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.toml")

	res := runCLI(t, path, "config", "path")
	require.NoError(t, res.err)
	assert.Equal(t, path+"\n", res.stdout)
}

func TestInvalidConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search]\nbogus = 1\n"), 0o600))

	res := runCLI(t, path, "search", "htop")
	assert.Equal(t, ExitConfigError, exitCode(t, res.err))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "pacsift "))
}

func TestAcquireLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "pacsift.lock")

	unlock, err := acquireLock(path)
	require.NoError(t, err)

	_, err = acquireLock(path)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())

	unlock, err = acquireLock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}
