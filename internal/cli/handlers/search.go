// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"time"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/search"
)

// Searcher is the part of the search controller a one-shot search needs.
type Searcher interface {
	Search(ctx context.Context, raw string) (search.Session, error)
	Wait()
	Status(name string) search.InstallStatus
}

// SearchHandler runs a single search and collects its report.
type SearchHandler struct {
	*BaseHandler

	searcher Searcher
	now      func() time.Time
}

// NewSearchHandler creates a handler searching through searcher.
func NewSearchHandler(base *BaseHandler, searcher Searcher) *SearchHandler {
	return &SearchHandler{BaseHandler: base, searcher: searcher, now: time.Now}
}

// Execute searches for query, waits for install status resolution and
// returns the displayed packages. The report is filled in as far as the
// search got, so it is usable even when an error is returned.
func (h *SearchHandler) Execute(ctx context.Context, query string) (domain.SearchReport, error) {
	messages := h.GetConsole()
	messages.Progressf("Searching for %q...", query)

	session, err := h.searcher.Search(ctx, query)

	report := domain.SearchReport{
		Query:     session.Query,
		Filters:   session.Filters.Tags(),
		Packages:  []domain.ReportPackage{},
		Timestamp: h.now().UTC(),
	}

	if report.Query == "" {
		report.Query = query
	}

	if err != nil {
		report.Error = domain.UserMessage(err)

		return report, err
	}

	messages.Progressf("Resolving install status of %d packages...", len(session.Displayed))
	h.searcher.Wait()

	for _, pkg := range session.Displayed {
		report.Packages = append(report.Packages, domain.ReportPackage{
			PackageResult: pkg.Clone(),
			Installed:     h.searcher.Status(pkg.Name) == search.StatusInstalled,
		})
	}

	report.Total = len(report.Packages)

	messages.Progressf("%d of %d results shown", len(session.Displayed), len(session.Raw))

	return report, nil
}
