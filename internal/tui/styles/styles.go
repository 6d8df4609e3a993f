// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/pacsift/internal/domain"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color

	// Component styles
	Header       lipgloss.Style
	Footer       lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Skeleton     lipgloss.Style
	Badge        lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Text styles (cached for performance)
	BodyText    lipgloss.Style
	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style

	// Layout styles
	Container lipgloss.Style
}

// New creates a new Styles instance with default Tokyo Night theme.
func New() *Styles {
	// Tokyo Night color palette
	primary := lipgloss.Color("#7aa2f7")    // Blue
	secondary := lipgloss.Color("#bb9af7")  // Purple
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26") // Dark background
	foreground := lipgloss.Color("#c0caf5") // Light foreground

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return &Styles{
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errorColor,
		Info:      info,
		Muted:     muted,
		Text:      foreground,

		Header: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, false, true, false).
			BorderForeground(primary),

		Footer: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true, false, false, false).
			BorderForeground(muted),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(secondary).
			Italic(true),

		Card: card,

		CardSelected: card.
			Border(lipgloss.ThickBorder()).
			BorderForeground(primary),

		Skeleton: card.
			BorderForeground(muted).
			Foreground(muted).
			Faint(true),

		Badge: lipgloss.NewStyle().
			Foreground(background).
			Padding(0, 1),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),

		// Cached text styles
		BodyText: lipgloss.NewStyle().
			Foreground(foreground),

		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		PrimaryText: lipgloss.NewStyle().
			Foreground(primary),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		WarningText: lipgloss.NewStyle().
			Foreground(warning),

		Container: lipgloss.NewStyle().
			Padding(0, 1),
	}
}

// RepoBadge renders the repository label on a repository specific color.
func (s *Styles) RepoBadge(repo domain.Repository) string {
	color := s.Muted

	switch repo {
	case domain.RepoCore:
		color = s.Primary
	case domain.RepoExtra:
		color = s.Info
	case domain.RepoMultilib:
		color = s.Secondary
	case domain.RepoAUR:
		color = s.Warning
	}

	return s.Badge.Background(color).Render(repo.Label())
}

// InstalledBadge renders the "Installed" marker.
func (s *Styles) InstalledBadge() string {
	return s.Badge.Background(s.Success).Render("Installed")
}

// StatusIcon returns styled status icons.
func (s *Styles) StatusIcon(status string) string {
	var (
		style lipgloss.Style
		icon  string
	)

	switch status {
	case "installed":
		style = s.SuccessText
		icon = "●"
	case "not installed":
		style = s.MutedText
		icon = "○"
	case "error":
		style = s.ErrorText
		icon = "✗"
	default:
		style = s.MutedText
		icon = "⋯"
	}

	return style.Render(icon)
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(s.Muted)

	return keyStyle.Render("["+key+"]") + " " + descStyle.Render(desc)
}
