// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads the pacsift TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/grid"
	"github.com/janderssonse/pacsift/internal/platform"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid marks a configuration value that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the structure of config.toml.
type Config struct {
	Search   SearchConfig   `toml:"search"`
	Index    IndexConfig    `toml:"index"`
	Resolver ResolverConfig `toml:"resolver"`
	Grid     GridConfig     `toml:"grid"`
	Pacman   PacmanConfig   `toml:"pacman"`
	Log      LogConfig      `toml:"log"`
}

// SearchConfig controls remote searches.
type SearchConfig struct {
	// Timeout bounds one index request; 0s disables the bound.
	Timeout             Duration `toml:"timeout"`
	IncludeAUR          bool     `toml:"include_aur"`
	DefaultRepositories []string `toml:"default_repositories"`
}

// IndexConfig locates the remote package index.
type IndexConfig struct {
	OfficialURL string `toml:"official_url"`
	AURURL      string `toml:"aur_url"`
}

// ResolverConfig controls local install lookups.
type ResolverConfig struct {
	Concurrency   int      `toml:"concurrency"`
	LookupTimeout Duration `toml:"lookup_timeout"`
}

// GridConfig holds the card grid breakpoints in terminal cells.
type GridConfig struct {
	Wide      int `toml:"wide"`
	Medium    int `toml:"medium"`
	RowHeight int `toml:"row_height"`
}

// PacmanConfig names the package manager binaries.
type PacmanConfig struct {
	Binary string `toml:"binary"`
	// AURHelper installs AUR packages; empty picks paru or yay when present.
	AURHelper string `toml:"aur_helper"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

const maxConcurrency = 32

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Search: SearchConfig{
			Timeout:    Duration(30 * time.Second),
			IncludeAUR: true,
		},
		Index: IndexConfig{
			OfficialURL: "https://archlinux.org",
			AURURL:      "https://aur.archlinux.org",
		},
		Resolver: ResolverConfig{
			Concurrency:   1,
			LookupTimeout: Duration(5 * time.Second),
		},
		Grid: GridConfig{
			Wide:      grid.TerminalBreakpoints.Wide,
			Medium:    grid.TerminalBreakpoints.Medium,
			RowHeight: grid.TerminalBreakpoints.RowHeight,
		},
		Pacman: PacmanConfig{
			Binary: "pacman",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own environment
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%w: %s: %s", ErrInvalid, path, strict.String())
		}

		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault reads the configuration from its standard location.
func LoadDefault() (Config, error) {
	return Load(platform.ConfigFile())
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error

	if c.Search.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: search.timeout must not be negative", ErrInvalid))
	}

	if _, err := c.Repositories(); err != nil {
		errs = append(errs, err)
	}

	for key, raw := range map[string]string{"index.official_url": c.Index.OfficialURL, "index.aur_url": c.Index.AURURL} {
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: %s %q is not an http(s) URL", ErrInvalid, key, raw))
		}
	}

	if c.Resolver.Concurrency < 1 || c.Resolver.Concurrency > maxConcurrency {
		errs = append(errs, fmt.Errorf("%w: resolver.concurrency must be between 1 and %d", ErrInvalid, maxConcurrency))
	}

	if c.Resolver.LookupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: resolver.lookup_timeout must be positive", ErrInvalid))
	}

	if c.Grid.Medium < 1 || c.Grid.Wide <= c.Grid.Medium || c.Grid.RowHeight < 1 {
		errs = append(errs, fmt.Errorf("%w: grid needs 0 < medium < wide and row_height >= 1", ErrInvalid))
	}

	if c.Pacman.Binary == "" {
		errs = append(errs, fmt.Errorf("%w: pacman.binary must be set", ErrInvalid))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Repositories parses search.default_repositories.
func (c Config) Repositories() ([]domain.Repository, error) {
	repos := make([]domain.Repository, 0, len(c.Search.DefaultRepositories))

	for _, name := range c.Search.DefaultRepositories {
		repo, ok := domain.ParseRepository(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown repository %q", ErrInvalid, name)
		}

		repos = append(repos, repo)
	}

	return repos, nil
}

// Breakpoints returns the grid breakpoints.
func (c Config) Breakpoints() grid.Breakpoints {
	return grid.Breakpoints{Wide: c.Grid.Wide, Medium: c.Grid.Medium, RowHeight: c.Grid.RowHeight}
}

// LogLevel parses log.level.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}

	return level, nil
}

// LogPath returns the log file location, defaulting to the XDG state dir.
func (c Config) LogPath() string {
	if c.Log.Path == "" {
		return platform.LogFile()
	}

	return platform.ExpandPath(c.Log.Path)
}

// SearchTimeout converts search.timeout for the controller, where a
// negative value disables the bound.
func (c Config) SearchTimeout() time.Duration {
	if c.Search.Timeout == 0 {
		return -1
	}

	return c.Search.Timeout.Std()
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
