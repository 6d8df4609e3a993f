// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/tui/styles"
)

const (
	testWidth  = 130 // three columns
	testHeight = 40
)

func newTestController(t *testing.T, provider domain.SearchProvider, store domain.LocalInstallStore) *search.Controller {
	t.Helper()

	ctrl := search.NewController(provider, store, search.Options{})
	t.Cleanup(ctrl.Close)

	return ctrl
}

func newTestSearch(t *testing.T, ctrl *search.Controller) *Search {
	t.Helper()

	m := NewSearch(context.Background(), ctrl, styles.New(), SearchOptions{})
	m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})

	return m
}

// searchAndSettle runs query to completion and lets the model catch up.
func searchAndSettle(t *testing.T, m *Search, ctrl *search.Controller, query string) {
	t.Helper()

	_, err := ctrl.Search(context.Background(), query)
	ctrl.Wait()
	m.Update(searchDoneMsg{query: query, err: err})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}
