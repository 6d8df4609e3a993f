// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/janderssonse/pacsift/internal/search"
	"github.com/janderssonse/pacsift/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatusMapDiscardsOtherGenerations(t *testing.T) {
	t.Parallel()

	status := search.NewStatusMap()
	status.Reset(2)

	assert.False(t, status.Apply(1, "htop", true))
	assert.Equal(t, search.StatusUnknown, status.Status("htop"))

	assert.True(t, status.Apply(2, "htop", true))
	assert.True(t, status.Installed("htop"))

	status.Reset(3)
	assert.Equal(t, search.StatusUnknown, status.Status("htop"), "reset wipes entries")
	assert.False(t, status.Forget(2, "htop"))
}

func TestResolverRecordsEachOutcome(t *testing.T) {
	t.Parallel()

	store := new(testutil.MockInstallStore)
	store.On("IsInstalled", mock.Anything, "vim").Return(true, nil)
	store.On("IsInstalled", mock.Anything, "emacs").Return(false, nil)
	store.On("IsInstalled", mock.Anything, "nano").Return(false, errors.New("pacman: database locked"))
	store.On("IsInstalled", mock.Anything, "helix").Return(true, nil)

	status := search.NewStatusMap()
	status.Reset(1)

	resolver := search.NewResolver(store, status, search.ResolverOptions{})
	resolver.Resolve(context.Background(), 1, []string{"vim", "emacs", "nano", "helix"})

	assert.Equal(t, search.StatusInstalled, status.Status("vim"))
	assert.Equal(t, search.StatusNotInstalled, status.Status("emacs"))
	assert.Equal(t, search.StatusUnknown, status.Status("nano"), "failed lookups stay unknown")
	assert.Equal(t, search.StatusInstalled, status.Status("helix"), "a failure does not stop later lookups")
	assert.False(t, status.Installed("nano"))

	store.AssertExpectations(t)
}

func TestResolverSequentialOrder(t *testing.T) {
	t.Parallel()

	store := testutil.NewGatedStore("b")
	status := search.NewStatusMap()
	status.Reset(4)

	resolver := search.NewResolver(store, status, search.ResolverOptions{Concurrency: 1})
	resolver.Resolve(context.Background(), 4, []string{"a", "b", "c", "d"})

	assert.Equal(t, []string{"a", "b", "c", "d"}, store.Calls())
}

func TestResolverBoundedConcurrency(t *testing.T) {
	t.Parallel()

	store := testutil.NewGatedStore("pkg-1", "pkg-3")
	status := search.NewStatusMap()
	status.Reset(1)

	var (
		mu      sync.Mutex
		applied []string
	)

	resolver := search.NewResolver(store, status, search.ResolverOptions{
		Concurrency: 3,
		OnApplied: func(_ uint64, name string) {
			mu.Lock()
			defer mu.Unlock()

			applied = append(applied, name)
		},
	})

	names := []string{"pkg-0", "pkg-1", "pkg-2", "pkg-3", "pkg-4"}
	resolver.Resolve(context.Background(), 1, names)

	assert.ElementsMatch(t, names, store.Calls())
	assert.ElementsMatch(t, names, applied)
	assert.True(t, status.Installed("pkg-1"))
	assert.True(t, status.Installed("pkg-3"))
	assert.Equal(t, search.StatusNotInstalled, status.Status("pkg-4"))
}

func TestResolverIsIdempotent(t *testing.T) {
	t.Parallel()

	store := testutil.NewGatedStore("vim")
	status := search.NewStatusMap()
	status.Reset(1)

	resolver := search.NewResolver(store, status, search.ResolverOptions{})
	resolver.Resolve(context.Background(), 1, []string{"vim"})
	resolver.Resolve(context.Background(), 1, []string{"vim"})

	_, entries := status.Snapshot()
	assert.Equal(t, map[string]bool{"vim": true}, entries)
}

func TestResolverDropsResultsOfSupersededGeneration(t *testing.T) {
	t.Parallel()

	store := testutil.NewGatedStore("htop")
	store.Hold("htop")

	status := search.NewStatusMap()
	status.Reset(1)

	resolver := search.NewResolver(store, status, search.ResolverOptions{})

	done := make(chan struct{})

	go func() {
		defer close(done)

		resolver.Resolve(context.Background(), 1, []string{"htop"})
	}()

	require.True(t, testutil.WaitWithTimeout(func() bool { return len(store.Calls()) == 1 }, time.Second))

	status.Reset(2)
	store.Release("htop")
	<-done

	generation, entries := status.Snapshot()
	assert.Equal(t, uint64(2), generation)
	assert.Empty(t, entries)
}

func TestResolverLookupTimeout(t *testing.T) {
	t.Parallel()

	store := testutil.NewGatedStore("slow")
	store.Hold("slow")

	t.Cleanup(func() { store.Release("slow") })

	status := search.NewStatusMap()
	status.Reset(1)
	status.Apply(1, "slow", true)

	resolver := search.NewResolver(store, status, search.ResolverOptions{LookupTimeout: 20 * time.Millisecond})
	resolver.Resolve(context.Background(), 1, []string{"slow"})

	assert.Equal(t, search.StatusUnknown, status.Status("slow"), "a timed out lookup degrades to unknown")
}
