// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"github.com/janderssonse/pacsift/internal/domain"
)

// Session is one issued search and everything derived from it.
// The controller replaces it on every new search and hands out deep copies.
type Session struct {
	Query      string
	Generation uint64
	Raw        []domain.PackageResult
	Displayed  []domain.PackageResult
	Filters    FilterSet
	Loading    bool
	Err        *domain.SearchError
	Selected   *domain.PackageResult
}

// Failure returns the session error state as an error, nil when there is none.
func (s Session) Failure() error {
	if s.Err == nil {
		return nil
	}

	return s.Err
}

// Started reports whether any search was issued yet.
func (s Session) Started() bool {
	return s.Generation > 0
}

// Find returns the raw result matching pkg.
func (s Session) Find(pkg domain.PackageResult) (domain.PackageResult, bool) {
	for _, candidate := range s.Raw {
		if candidate.Same(pkg) {
			return candidate, true
		}
	}

	return domain.PackageResult{}, false
}

// clone deep-copies the session so callers cannot reach controller state.
func (s Session) clone() Session {
	out := s
	out.Raw = domain.ClonePackages(s.Raw)
	out.Displayed = domain.ClonePackages(s.Displayed)

	if s.Err != nil {
		errState := *s.Err
		out.Err = &errState
	}

	if s.Selected != nil {
		selected := s.Selected.Clone()
		out.Selected = &selected
	}

	return out
}

// withResults returns s holding raw and the derived displayed set and error state.
func (s Session) withResults(raw, displayed []domain.PackageResult) Session {
	s.Raw = raw
	s.Displayed = displayed
	s.Err = nil

	if len(raw) > 0 && len(displayed) == 0 {
		s.Err = domain.NewSearchError(domain.ErrFilterEmpty, nil)
	}

	return s
}
