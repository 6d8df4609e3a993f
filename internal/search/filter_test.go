// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"math/rand/v2"
	"testing"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedResults() []domain.PackageResult {
	return []domain.PackageResult{
		testutil.Package("bash", domain.RepoCore),
		testutil.Package("vim", domain.RepoExtra),
		testutil.Package("wine", domain.RepoMultilib),
		testutil.Package("yay", domain.RepoAUR),
		testutil.Package("glibc", domain.RepoCore),
	}
}

func TestApplyFiltersEmptySetIsIdentity(t *testing.T) {
	t.Parallel()

	raw := mixedResults()
	displayed := ApplyFilters(raw, FilterSet{})

	assert.Equal(t, raw, displayed)
}

func TestApplyFiltersKeepsOrder(t *testing.T) {
	t.Parallel()

	raw := mixedResults()
	displayed := ApplyFilters(raw, NewFilterSet(domain.RepoCore, domain.RepoAUR))

	assert.Equal(t, []string{"bash", "yay", "glibc"}, domain.PackageNames(displayed))
}

func TestApplyFiltersNoMatch(t *testing.T) {
	t.Parallel()

	raw := testutil.Packages("vim", domain.RepoExtra, 5)
	displayed := ApplyFilters(raw, NewFilterSet(domain.RepoCore))

	assert.Empty(t, displayed)
	assert.Len(t, raw, 5, "raw must not be modified")
}

// Random raw/filter pairs: the displayed set is always an ordered
// subsequence of raw, and equals raw exactly when no filter is active.
func TestApplyFiltersSubsequenceProperty(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	universe := domain.Repositories()

	for range 200 {
		raw := make([]domain.PackageResult, rng.IntN(12))
		for i := range raw {
			raw[i] = testutil.Package(string(rune('a'+i)), universe[rng.IntN(len(universe))])
		}

		filters := FilterSet{}
		for _, repo := range universe {
			if rng.IntN(3) == 0 {
				filters = filters.With(repo)
			}
		}

		displayed := ApplyFilters(raw, filters)

		require.True(t, isSubsequence(displayed, raw))

		if filters.IsEmpty() {
			assert.Equal(t, raw, displayed)
		}

		for _, pkg := range displayed {
			assert.True(t, filters.IsEmpty() || filters.Contains(pkg.Repository))
		}
	}
}

func isSubsequence(sub, full []domain.PackageResult) bool {
	i := 0
	for _, pkg := range full {
		if i < len(sub) && sub[i].Same(pkg) {
			i++
		}
	}

	return i == len(sub)
}

func TestFilterSetIsImmutable(t *testing.T) {
	t.Parallel()

	base := NewFilterSet(domain.RepoCore)
	extended := base.With(domain.RepoExtra)
	reduced := extended.Without(domain.RepoCore)

	assert.Equal(t, []domain.Repository{domain.RepoCore}, base.Tags())
	assert.Equal(t, []domain.Repository{domain.RepoCore, domain.RepoExtra}, extended.Tags())
	assert.Equal(t, []domain.Repository{domain.RepoExtra}, reduced.Tags())
	assert.True(t, FilterSet{}.IsEmpty())
}

func TestFilterSetKeyIsCanonical(t *testing.T) {
	t.Parallel()

	first := NewFilterSet(domain.RepoAUR, domain.RepoCore, "testing", "kde-unstable")
	second := NewFilterSet("kde-unstable", domain.RepoCore, "testing", domain.RepoAUR)

	assert.Equal(t, first.Key(), second.Key())
	assert.Equal(t, "core,AUR,kde-unstable,testing", first.Key())
	assert.Empty(t, FilterSet{}.Key())
}

func TestFilterEngineCachesPerGenerationAndFilters(t *testing.T) {
	t.Parallel()

	raw := mixedResults()
	engine := &FilterEngine{}
	core := NewFilterSet(domain.RepoCore)

	first := engine.Apply(1, raw, core)
	second := engine.Apply(1, raw, NewFilterSet(domain.RepoCore))

	require.Len(t, first, 2)
	assert.Same(t, &first[0], &second[0], "same key must reuse the cached slice")

	third := engine.Apply(2, raw, core)
	assert.NotSame(t, &first[0], &third[0], "a new generation recomputes")

	engine.Reset()
	assert.False(t, engine.valid)
}
