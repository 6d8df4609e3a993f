// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janderssonse/pacsift/internal/domain"
)

// DefaultLookupTimeout bounds a single local install lookup.
const DefaultLookupTimeout = 5 * time.Second

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Concurrency is the number of lookups in flight. Values below 2 resolve
	// names one after another in input order.
	Concurrency int
	// LookupTimeout bounds each lookup. Zero means DefaultLookupTimeout,
	// negative means no timeout.
	LookupTimeout time.Duration
	// OnApplied is called after an entry of the live generation was written
	// or forgotten.
	OnApplied func(generation uint64, name string)
	Logger    *slog.Logger
}

// Resolver maps package names to local install state for one generation at a time.
type Resolver struct {
	store   domain.LocalInstallStore
	status  *StatusMap
	opts    ResolverOptions
	logger  *slog.Logger
	timeout time.Duration
}

// NewResolver creates a resolver writing into status.
func NewResolver(store domain.LocalInstallStore, status *StatusMap, opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	timeout := opts.LookupTimeout
	if timeout == 0 {
		timeout = DefaultLookupTimeout
	}

	return &Resolver{
		store:   store,
		status:  status,
		opts:    opts,
		logger:  logger,
		timeout: timeout,
	}
}

// Resolve looks up every name and records the outcomes under generation.
// Outcomes arriving after the status map moved to another generation are
// dropped. A failed lookup leaves that name unknown and does not stop the others.
func (r *Resolver) Resolve(ctx context.Context, generation uint64, names []string) {
	if r.opts.Concurrency < 2 {
		for _, name := range names {
			if ctx.Err() != nil {
				return
			}

			r.resolveOne(ctx, generation, name)
		}

		return
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.opts.Concurrency)

	for _, name := range names {
		group.Go(func() error {
			r.resolveOne(groupCtx, generation, name)

			return nil
		})
	}

	_ = group.Wait()
}

func (r *Resolver) resolveOne(ctx context.Context, generation uint64, name string) {
	if r.status.Generation() != generation {
		return
	}

	lookupCtx := ctx

	if r.timeout > 0 {
		var cancel context.CancelFunc

		lookupCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	installed, err := r.store.IsInstalled(lookupCtx, name)
	if err != nil {
		r.logger.Debug("install lookup failed",
			"package", name,
			"generation", generation,
			"error", domain.NewSearchError(domain.ErrLookup, err))

		if r.status.Forget(generation, name) {
			r.notify(generation, name)
		}

		return
	}

	if !r.status.Apply(generation, name, installed) {
		r.logger.Debug("discarding stale install status",
			"package", name,
			"generation", generation)

		return
	}

	r.notify(generation, name)
}

func (r *Resolver) notify(generation uint64, name string) {
	if r.opts.OnApplied != nil {
		r.opts.OnApplied(generation, name)
	}
}
