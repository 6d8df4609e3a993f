// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"slices"
	"strings"

	"github.com/janderssonse/pacsift/internal/domain"
)

// FilterSet is an immutable set of repository tags.
// The zero value is the empty set, which means "no filtering".
type FilterSet struct {
	tags map[domain.Repository]struct{}
}

// NewFilterSet creates a set holding tags.
func NewFilterSet(tags ...domain.Repository) FilterSet {
	set := FilterSet{}
	for _, tag := range tags {
		set = set.With(tag)
	}

	return set
}

// With returns a copy of the set including tag.
func (f FilterSet) With(tag domain.Repository) FilterSet {
	if f.Contains(tag) {
		return f
	}

	tags := make(map[domain.Repository]struct{}, len(f.tags)+1)
	for t := range f.tags {
		tags[t] = struct{}{}
	}

	tags[tag] = struct{}{}

	return FilterSet{tags: tags}
}

// Without returns a copy of the set excluding tag.
func (f FilterSet) Without(tag domain.Repository) FilterSet {
	if !f.Contains(tag) {
		return f
	}

	tags := make(map[domain.Repository]struct{}, len(f.tags))
	for t := range f.tags {
		if t != tag {
			tags[t] = struct{}{}
		}
	}

	return FilterSet{tags: tags}
}

// Contains reports whether tag is in the set.
func (f FilterSet) Contains(tag domain.Repository) bool {
	_, ok := f.tags[tag]

	return ok
}

// IsEmpty reports whether no tag is set.
func (f FilterSet) IsEmpty() bool {
	return len(f.tags) == 0
}

// Len returns the number of tags.
func (f FilterSet) Len() int {
	return len(f.tags)
}

// Tags returns the members in universe order followed by any tag outside it.
func (f FilterSet) Tags() []domain.Repository {
	out := make([]domain.Repository, 0, len(f.tags))
	for _, repo := range domain.Repositories() {
		if f.Contains(repo) {
			out = append(out, repo)
		}
	}

	if len(out) == len(f.tags) {
		return out
	}

	known := NewFilterSet(domain.Repositories()...)

	var extra []domain.Repository

	for tag := range f.tags {
		if !known.Contains(tag) {
			extra = append(extra, tag)
		}
	}

	slices.Sort(extra)

	return append(out, extra...)
}

// Key is a canonical string for the set, usable as a cache key.
func (f FilterSet) Key() string {
	tags := f.Tags()

	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}

	return strings.Join(parts, ",")
}

// ApplyFilters derives the displayed subset of raw. An empty filter set
// returns raw itself; otherwise the result keeps raw's order and holds only
// packages whose repository is in filters.
func ApplyFilters(raw []domain.PackageResult, filters FilterSet) []domain.PackageResult {
	if filters.IsEmpty() {
		return raw
	}

	displayed := make([]domain.PackageResult, 0, len(raw))
	for _, pkg := range raw {
		if filters.Contains(pkg.Repository) {
			displayed = append(displayed, pkg)
		}
	}

	return displayed
}

// FilterEngine memoizes ApplyFilters for the last (generation, filters) pair.
// Raw results of a generation never change, so the pair identifies the input.
// Not safe for concurrent use; the controller serializes access.
type FilterEngine struct {
	valid      bool
	generation uint64
	key        string
	displayed  []domain.PackageResult
}

// Apply returns the displayed subset, reusing the cached one when the
// generation and filter set match the previous call.
func (e *FilterEngine) Apply(generation uint64, raw []domain.PackageResult, filters FilterSet) []domain.PackageResult {
	key := filters.Key()
	if e.valid && e.generation == generation && e.key == key {
		return e.displayed
	}

	e.displayed = ApplyFilters(raw, filters)
	e.generation = generation
	e.key = key
	e.valid = true

	return e.displayed
}

// Reset drops the cached result.
func (e *FilterEngine) Reset() {
	*e = FilterEngine{}
}
