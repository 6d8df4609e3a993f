// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package archweb queries the Arch Linux package index: the official
// repositories' JSON search API and the AUR RPC interface.
package archweb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/platform"
)

// Default index locations.
const (
	DefaultOfficialURL = "https://archlinux.org"
	DefaultAURURL      = "https://aur.archlinux.org"
)

// maxBody bounds a decoded response.
const maxBody = 16 << 20

var (
	// ErrStatus is returned when the index answers with a non-200 status.
	ErrStatus = errors.New("unexpected status")
	// ErrAUR is returned when the AUR RPC reports an error in its payload.
	ErrAUR = errors.New("aur rpc error")
)

// Options configures the client.
type Options struct {
	OfficialURL string
	AURURL      string
	IncludeAUR  bool
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client implements domain.SearchProvider over HTTP.
type Client struct {
	officialURL string
	aurURL      string
	includeAUR  bool
	http        *http.Client
	logger      *slog.Logger
}

// NewClient creates an index client. Empty URLs use the public index.
func NewClient(opts Options) *Client {
	client := &Client{
		officialURL: strings.TrimRight(opts.OfficialURL, "/"),
		aurURL:      strings.TrimRight(opts.AURURL, "/"),
		includeAUR:  opts.IncludeAUR,
		http:        opts.HTTPClient,
		logger:      opts.Logger,
	}

	if client.officialURL == "" {
		client.officialURL = DefaultOfficialURL
	}

	if client.aurURL == "" {
		client.aurURL = DefaultAURURL
	}

	if client.http == nil {
		client.http = platform.GetHTTPClient(0)
	}

	if client.logger == nil {
		client.logger = slog.New(slog.DiscardHandler)
	}

	if proxy := platform.GetProxyForURL(client.officialURL); proxy != "" {
		client.logger.Debug("package index requests go through a proxy", "proxy", proxy)
	}

	return client
}

// Search returns official results followed by AUR results. An AUR failure
// degrades to the official results; an official failure fails the search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.PackageResult, error) {
	type aurOutcome struct {
		results []domain.PackageResult
		err     error
	}

	aurDone := make(chan aurOutcome, 1)

	if c.includeAUR {
		go func() {
			results, err := c.searchAUR(ctx, query)
			aurDone <- aurOutcome{results: results, err: err}
		}()
	} else {
		aurDone <- aurOutcome{}
	}

	official, err := c.searchOfficial(ctx, query)
	if err != nil {
		return nil, err
	}

	aur := <-aurDone
	if aur.err != nil {
		c.logger.WarnContext(ctx, "aur search failed, showing official results only", "query", query, "error", aur.err)
	}

	c.logger.DebugContext(ctx, "index search done", "query", query, "official", len(official), "aur", len(aur.results))

	return append(official, aur.results...), nil
}

type officialResponse struct {
	Valid   bool              `json:"valid"`
	Results []officialPackage `json:"results"`
}

type officialPackage struct {
	Name        string    `json:"pkgname"`
	Repo        string    `json:"repo"`
	Version     string    `json:"pkgver"`
	Release     string    `json:"pkgrel"`
	Epoch       int       `json:"epoch"`
	Description string    `json:"pkgdesc"`
	URL         string    `json:"url"`
	Maintainers []string  `json:"maintainers"`
	Depends     []string  `json:"depends"`
	LastUpdate  time.Time `json:"last_update"`
}

func (p officialPackage) toResult() (domain.PackageResult, bool) {
	repo, ok := domain.ParseRepository(p.Repo)
	if !ok || repo == domain.RepoAUR {
		return domain.PackageResult{}, false
	}

	version := p.Version + "-" + p.Release
	if p.Epoch > 0 {
		version = fmt.Sprintf("%d:%s", p.Epoch, version)
	}

	return domain.PackageResult{
		Name:         p.Name,
		Version:      version,
		Description:  p.Description,
		Repository:   repo,
		Maintainer:   strings.Join(p.Maintainers, ", "),
		UpstreamURL:  p.URL,
		Dependencies: p.Depends,
		LastUpdated:  p.LastUpdate,
	}, true
}

func (c *Client) searchOfficial(ctx context.Context, query string) ([]domain.PackageResult, error) {
	params := url.Values{}
	params.Set("q", query)

	for _, repo := range []domain.Repository{domain.RepoCore, domain.RepoExtra, domain.RepoMultilib} {
		params.Add("repo", repo.Label())
	}

	var response officialResponse
	if err := c.getJSON(ctx, c.officialURL+"/packages/search/json/?"+params.Encode(), &response); err != nil {
		return nil, fmt.Errorf("official index: %w", err)
	}

	results := make([]domain.PackageResult, 0, len(response.Results))
	seen := make(map[string]bool, len(response.Results))

	for _, pkg := range response.Results {
		result, ok := pkg.toResult()
		if !ok {
			continue
		}

		// One entry per repo/name; the index lists each architecture.
		if seen[result.Key()] {
			continue
		}

		seen[result.Key()] = true
		results = append(results, result)
	}

	return results, nil
}

type aurResponse struct {
	Type    string       `json:"type"`
	Error   string       `json:"error"`
	Results []aurPackage `json:"results"`
}

type aurPackage struct {
	Name         string `json:"Name"`
	Version      string `json:"Version"`
	Description  string `json:"Description"`
	URL          string `json:"URL"`
	Maintainer   string `json:"Maintainer"`
	LastModified int64  `json:"LastModified"`
}

func (p aurPackage) toResult() domain.PackageResult {
	result := domain.PackageResult{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Repository:  domain.RepoAUR,
		Maintainer:  p.Maintainer,
		UpstreamURL: p.URL,
	}

	if p.LastModified > 0 {
		result.LastUpdated = time.Unix(p.LastModified, 0).UTC()
	}

	return result
}

func (c *Client) searchAUR(ctx context.Context, query string) ([]domain.PackageResult, error) {
	endpoint := c.aurURL + "/rpc/v5/search/" + url.PathEscape(query) + "?by=name-desc"

	var response aurResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("aur: %w", err)
	}

	if response.Type == "error" {
		return nil, fmt.Errorf("%w: %s", ErrAUR, response.Error)
	}

	results := make([]domain.PackageResult, 0, len(response.Results))
	for _, pkg := range response.Results {
		results = append(results, pkg.toResult())
	}

	return results, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", platform.AppName)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

		return fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
