// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"bytes"
	"context"
	"testing"
	"time"

	cliAdapter "github.com/janderssonse/pacsift/internal/adapters/cli"
	"github.com/janderssonse/pacsift/internal/console"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, provider domain.SearchProvider, filters search.FilterSet, installed ...string) (*SearchHandler, *bytes.Buffer) {
	t.Helper()

	ctrl := search.NewController(provider, testutil.NewGatedStore(installed...), search.Options{Filters: filters})
	t.Cleanup(ctrl.Close)

	var stderr bytes.Buffer

	messages := console.NewOutputState(&stderr)
	messages.SetMode(true, false, false)

	base := NewBaseHandler(true, false, cliAdapter.NewOutputAdapterWithWriter(&bytes.Buffer{}, cliAdapter.TextFormat, false), messages)
	handler := NewSearchHandler(base, ctrl)
	handler.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }

	return handler, &stderr
}

func TestSearchHandlerExecute(t *testing.T) {
	t.Parallel()

	provider := testutil.NewStaticProvider().Add("fd",
		testutil.Package("fd", domain.RepoExtra),
		testutil.Package("fd-git", domain.RepoAUR),
		testutil.Package("fdupes", domain.RepoExtra),
	)

	handler, stderr := newHandler(t, provider, search.NewFilterSet(domain.RepoExtra), "fdupes")

	report, err := handler.Execute(context.Background(), "  FD ")
	require.NoError(t, err)

	assert.Equal(t, "fd", report.Query)
	assert.Equal(t, []domain.Repository{domain.RepoExtra}, report.Filters)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), report.Timestamp)

	require.Len(t, report.Packages, 2)
	assert.Equal(t, "fd", report.Packages[0].Name)
	assert.False(t, report.Packages[0].Installed)
	assert.Equal(t, "fdupes", report.Packages[1].Name)
	assert.True(t, report.Packages[1].Installed)

	assert.Contains(t, stderr.String(), "2 of 3 results shown")
}

func TestSearchHandlerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		kind    error
		message string
	}{
		{name: "blank", query: " ", kind: domain.ErrValidation, message: "Please enter a search term"},
		{name: "nothing found", query: "zzz", kind: domain.ErrEmptyQueryResult, message: "No results found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, _ := newHandler(t, testutil.NewStaticProvider(), search.NewFilterSet())

			report, err := handler.Execute(context.Background(), tt.query)
			require.ErrorIs(t, err, tt.kind)

			assert.Equal(t, tt.message, report.Error)
			assert.Empty(t, report.Packages)
			assert.NotEmpty(t, report.Query)
		})
	}
}

func TestBaseHandlerDefaults(t *testing.T) {
	t.Parallel()

	h := NewBaseHandler(false, true, nil, nil)

	assert.True(t, h.GetOutput().IsQuiet())
	assert.True(t, h.GetConsole().Quiet)
	assert.NotNil(t, h.Writer())
}
