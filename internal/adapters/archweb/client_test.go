// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package archweb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/janderssonse/pacsift/internal/adapters/archweb"
	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const officialVim = `{
  "version": 2, "limit": 250, "valid": true, "num_pages": 1, "page": 1,
  "results": [
    {"pkgname": "vim", "repo": "extra", "arch": "x86_64", "pkgver": "9.1.0866", "pkgrel": "1", "epoch": 0,
     "pkgdesc": "Vi Improved", "url": "https://www.vim.org", "maintainers": ["grazzolini", "tpowa"],
     "depends": ["glibc", "libgcrypt"], "last_update": "2024-11-20T10:11:12.345Z"},
    {"pkgname": "vim", "repo": "extra", "arch": "any", "pkgver": "9.1.0866", "pkgrel": "1", "epoch": 0,
     "pkgdesc": "Vi Improved", "url": "https://www.vim.org", "maintainers": [], "depends": [],
     "last_update": "2024-11-20T10:11:12.345Z"},
    {"pkgname": "vim-runtime", "repo": "extra", "arch": "x86_64", "pkgver": "9.1.0866", "pkgrel": "1", "epoch": 2,
     "pkgdesc": "Runtime", "url": "https://www.vim.org", "maintainers": [], "depends": ["bash"],
     "last_update": "2024-11-20T10:11:12.345Z"},
    {"pkgname": "vim-git", "repo": "core-testing", "arch": "x86_64", "pkgver": "1", "pkgrel": "1", "epoch": 0,
     "pkgdesc": "", "url": "", "maintainers": [], "depends": [], "last_update": "2024-11-20T10:11:12Z"}
  ]
}`

const aurVim = `{
  "resultcount": 1, "type": "search", "version": 5,
  "results": [
    {"ID": 1, "Name": "vim-plug", "PackageBase": "vim-plug", "Version": "0.14.0-1",
     "Description": "Minimalist Vim plugin manager", "URL": "https://github.com/junegunn/vim-plug",
     "NumVotes": 10, "Popularity": 0.5, "OutOfDate": null, "Maintainer": "someone", "LastModified": 1700000000}
  ]
}`

type index struct {
	mu       sync.Mutex
	official func(w http.ResponseWriter, r *http.Request)
	aur      func(w http.ResponseWriter, r *http.Request)
	requests []*http.Request
}

func newIndex(t *testing.T) (*index, *httptest.Server) {
	t.Helper()

	idx := &index{
		official: jsonBody(officialVim),
		aur:      jsonBody(aurVim),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx.mu.Lock()
		idx.requests = append(idx.requests, r)
		official, aur := idx.official, idx.aur
		idx.mu.Unlock()

		switch {
		case r.URL.Path == "/packages/search/json/":
			official(w, r)
		case strings.HasPrefix(r.URL.Path, "/rpc/v5/search/"):
			aur(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return idx, server
}

func (i *index) serve(official, aur func(http.ResponseWriter, *http.Request)) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.official, i.aur = official, aur
}

func jsonBody(body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func status(code int) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

func newClient(server *httptest.Server, includeAUR bool) *archweb.Client {
	return archweb.NewClient(archweb.Options{
		OfficialURL: server.URL,
		AURURL:      server.URL + "/",
		IncludeAUR:  includeAUR,
		HTTPClient:  server.Client(),
	})
}

func TestSearchMergesOfficialBeforeAUR(t *testing.T) {
	t.Parallel()

	_, server := newIndex(t)

	results, err := newClient(server, true).Search(context.Background(), "vim")
	require.NoError(t, err)
	require.Len(t, results, 3, "duplicate architectures and unknown repos are dropped")

	vim := results[0]
	assert.Equal(t, "vim", vim.Name)
	assert.Equal(t, "9.1.0866-1", vim.Version)
	assert.Equal(t, domain.RepoExtra, vim.Repository)
	assert.Equal(t, "grazzolini, tpowa", vim.Maintainer)
	assert.Equal(t, []string{"glibc", "libgcrypt"}, vim.Dependencies)
	assert.Equal(t, 2024, vim.LastUpdated.Year())

	assert.Equal(t, "2:9.1.0866-1", results[1].Version, "epoch prefixes the version")

	plug := results[2]
	assert.Equal(t, "vim-plug", plug.Name)
	assert.Equal(t, domain.RepoAUR, plug.Repository)
	assert.Equal(t, "0.14.0-1", plug.Version)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), plug.LastUpdated)
	assert.Empty(t, plug.Dependencies)
}

func TestSearchSendsRepositoryFilters(t *testing.T) {
	t.Parallel()

	idx, server := newIndex(t)

	_, err := newClient(server, true).Search(context.Background(), "visual-studio")
	require.NoError(t, err)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	require.Len(t, idx.requests, 2)

	for _, r := range idx.requests {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		if r.URL.Path == "/packages/search/json/" {
			assert.Equal(t, "visual-studio", r.URL.Query().Get("q"))
			assert.Equal(t, []string{"Core", "Extra", "Multilib"}, r.URL.Query()["repo"])
		} else {
			assert.Equal(t, "/rpc/v5/search/visual-studio", r.URL.Path)
			assert.Equal(t, "name-desc", r.URL.Query().Get("by"))
		}
	}
}

func TestSearchWithoutAUR(t *testing.T) {
	t.Parallel()

	idx, server := newIndex(t)

	results, err := newClient(server, false).Search(context.Background(), "vim")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	assert.Len(t, idx.requests, 1)
}

func TestSearchFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		official  func(http.ResponseWriter, *http.Request)
		aur       func(http.ResponseWriter, *http.Request)
		wantErr   error
		wantCount int
	}{
		{
			name:     "official outage fails the search",
			official: status(http.StatusServiceUnavailable),
			aur:      jsonBody(aurVim),
			wantErr:  archweb.ErrStatus,
		},
		{
			name:      "aur outage degrades to official",
			official:  jsonBody(officialVim),
			aur:       status(http.StatusInternalServerError),
			wantCount: 2,
		},
		{
			name:      "aur rpc error degrades to official",
			official:  jsonBody(officialVim),
			aur:       jsonBody(`{"type": "error", "error": "Too many package results.", "results": []}`),
			wantCount: 2,
		},
		{
			name:     "malformed official payload",
			official: jsonBody(`{"results": [`),
			aur:      jsonBody(aurVim),
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx, server := newIndex(t)
			idx.serve(tt.official, tt.aur)

			results, err := newClient(server, true).Search(context.Background(), "vim")

			if tt.wantCount == 0 {
				require.Error(t, err)

				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
					assert.Contains(t, err.Error(), "status 503")
				}

				return
			}

			require.NoError(t, err)
			assert.Len(t, results, tt.wantCount)
		})
	}
}

func TestSearchEmptyResults(t *testing.T) {
	t.Parallel()

	idx, server := newIndex(t)
	idx.serve(
		jsonBody(`{"valid": true, "results": []}`),
		jsonBody(`{"type": "search", "resultcount": 0, "results": []}`),
	)

	results, err := newClient(server, true).Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchHonoursContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	idx, server := newIndex(t)
	idx.serve(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}

		jsonBody(officialVim)(w, r)
	}, jsonBody(aurVim))

	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(server, false).Search(ctx, "vim")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
