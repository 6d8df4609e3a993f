// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements the search and details screens and the
// messages passed between them.
package models

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/search"
)

// Action is a package operation run from the details screen.
type Action string

// Actions.
const (
	ActionInstall Action = "install"
	ActionRemove  Action = "remove"
)

// ControllerEventMsg carries a search controller change notification.
type ControllerEventMsg struct {
	Event search.Event
}

// ControllerClosedMsg is sent once the controller event channel is closed.
type ControllerClosedMsg struct{}

// OpenDetailsMsg asks the app to show the details screen for a package.
type OpenDetailsMsg struct {
	Package    domain.PackageResult
	Generation uint64
}

// BackMsg returns from the details screen to the search screen.
type BackMsg struct{}

// searchDoneMsg reports that a Search call settled.
type searchDoneMsg struct {
	query string
	err   error
}

// actionDoneMsg reports the end of an interactive install or removal.
type actionDoneMsg struct {
	action     Action
	pkg        domain.PackageResult
	generation uint64
	err        error
}

// reconciledMsg reports that the install status of a package was re-read.
type reconciledMsg struct {
	name    string
	applied bool
}

// WaitForEvent blocks on the next controller notification.
// Re-issue it after handling each ControllerEventMsg.
func WaitForEvent(events <-chan search.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return ControllerClosedMsg{}
		}

		return ControllerEventMsg{Event: evt}
	}
}

func runSearch(ctx context.Context, ctrl *search.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.Search(ctx, query)
		if errors.Is(err, search.ErrSuperseded) {
			err = nil
		}

		return searchDoneMsg{query: query, err: err}
	}
}

func reconcile(ctx context.Context, ctrl *search.Controller, generation uint64, pkg domain.PackageResult) tea.Cmd {
	return func() tea.Msg {
		applied := ctrl.ReconcileInstallStatus(ctx, generation, pkg)

		return reconciledMsg{name: pkg.Name, applied: applied}
	}
}
