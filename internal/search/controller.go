// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/janderssonse/pacsift/internal/domain"
)

// DefaultSearchTimeout bounds a remote search request.
const DefaultSearchTimeout = 30 * time.Second

// ErrSuperseded is returned by Search when a newer search started before
// this one settled. Its results were dropped.
var ErrSuperseded = errors.New("search superseded by a newer query")

// EventKind tells subscribers what changed.
type EventKind int

// Event kinds.
const (
	EventSession EventKind = iota // session replaced or updated
	EventStatus                   // install status map updated
)

// Event is a change notification. Notifications coalesce: when one is
// already pending, new ones are dropped, so consumers always re-read state.
type Event struct {
	Kind       EventKind
	Generation uint64
}

// Options configures a Controller.
type Options struct {
	// SearchTimeout bounds each provider call. Zero means
	// DefaultSearchTimeout, negative means no timeout.
	SearchTimeout time.Duration
	// Filters is the initial repository filter set.
	Filters  FilterSet
	Resolver ResolverOptions
	Logger   *slog.Logger
}

// Controller owns the search session and sequences the provider, the filter
// engine and the install status resolver.
type Controller struct {
	provider domain.SearchProvider
	status   *StatusMap
	resolver *Resolver
	logger   *slog.Logger
	timeout  time.Duration

	lifetime context.Context //nolint:containedctx // bounds background resolutions
	stop     context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.Mutex
	generation uint64
	session    Session
	engine     FilterEngine
	stopping   bool

	eventsMu sync.Mutex
	events   chan Event
	closed   bool
}

// NewController creates a controller with an empty session.
func NewController(provider domain.SearchProvider, store domain.LocalInstallStore, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	timeout := opts.SearchTimeout
	if timeout == 0 {
		timeout = DefaultSearchTimeout
	}

	lifetime, stop := context.WithCancel(context.Background())

	ctrl := &Controller{
		provider: provider,
		status:   NewStatusMap(),
		logger:   logger,
		timeout:  timeout,
		lifetime: lifetime,
		stop:     stop,
		session:  Session{Filters: opts.Filters},
		events:   make(chan Event, 1),
	}

	resolverOpts := opts.Resolver
	if resolverOpts.Logger == nil {
		resolverOpts.Logger = logger
	}

	onApplied := resolverOpts.OnApplied
	resolverOpts.OnApplied = func(generation uint64, name string) {
		ctrl.publish(Event{Kind: EventStatus, Generation: generation})

		if onApplied != nil {
			onApplied(generation, name)
		}
	}

	ctrl.resolver = NewResolver(store, ctrl.status, resolverOpts)

	return ctrl
}

// Search validates and normalizes raw, replaces the session with a new
// generation and queries the provider. It blocks until the provider settles
// and returns the resulting snapshot together with its error state.
//
// An invalid query returns a validation error and leaves the session as it
// was. Install status resolution for the results continues in the background.
func (c *Controller) Search(ctx context.Context, raw string) (Session, error) {
	query, err := Normalize(raw)
	if err != nil {
		return c.Snapshot(), err
	}

	generation := c.begin(query)

	c.logger.Info("search started", "query", query, "generation", generation)

	searchCtx := ctx

	if c.timeout > 0 {
		var cancel context.CancelFunc

		searchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	results, err := c.provider.Search(searchCtx, query)

	session, current := c.complete(generation, results, err)
	if !current {
		c.logger.Info("search superseded", "query", query, "generation", generation)

		return session, ErrSuperseded
	}

	c.logger.Info("search settled",
		"query", query,
		"generation", generation,
		"results", len(session.Raw),
		"displayed", len(session.Displayed),
		"duration", time.Since(started),
		"error", session.Failure())

	if len(session.Raw) > 0 {
		c.resolveInBackground(generation, domain.PackageNames(session.Raw))
	}

	return session, session.Failure()
}

// ToggleFilter adds or removes tag from the active filter set and
// recomputes the displayed results from the stored raw results.
func (c *Controller) ToggleFilter(tag domain.Repository, included bool) Session {
	c.mu.Lock()

	filters := c.session.Filters.Without(tag)
	if included {
		filters = c.session.Filters.With(tag)
	}

	session := c.refilterLocked(filters)
	c.mu.Unlock()

	c.publish(Event{Kind: EventSession, Generation: session.Generation})

	return session
}

// SetFilters replaces the active filter set.
func (c *Controller) SetFilters(filters FilterSet) Session {
	c.mu.Lock()
	session := c.refilterLocked(filters)
	c.mu.Unlock()

	c.publish(Event{Kind: EventSession, Generation: session.Generation})

	return session
}

// ClearFilters resets to the empty filter set, showing every raw result.
func (c *Controller) ClearFilters() Session {
	return c.SetFilters(FilterSet{})
}

// SelectItem marks pkg as selected. pkg must be one of the current raw results.
func (c *Controller) SelectItem(pkg domain.PackageResult) error {
	c.mu.Lock()

	found, ok := c.session.Find(pkg)
	if !ok {
		c.mu.Unlock()

		return domain.ErrNotInSession
	}

	selected := found.Clone()
	c.session.Selected = &selected
	generation := c.session.Generation
	c.mu.Unlock()

	c.publish(Event{Kind: EventSession, Generation: generation})

	return nil
}

// ClearSelection drops the selected package, leaving the results as they are.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.session.Selected = nil
	generation := c.session.Generation
	c.mu.Unlock()

	c.publish(Event{Kind: EventSession, Generation: generation})
}

// ReconcileInstallStatus re-resolves pkg after an install or removal. It is
// a no-op returning false when the session moved past generation or pkg is
// not among its raw results.
func (c *Controller) ReconcileInstallStatus(ctx context.Context, generation uint64, pkg domain.PackageResult) bool {
	c.mu.Lock()
	_, found := c.session.Find(pkg)
	current := c.session.Generation == generation
	c.mu.Unlock()

	if !current || !found {
		c.logger.Debug("skipping stale reconcile", "package", pkg.Name, "generation", generation)

		return false
	}

	c.resolver.Resolve(ctx, generation, []string{pkg.Name})

	return true
}

// Snapshot returns a deep copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.clone()
}

// Status returns the install status of name for the current generation.
func (c *Controller) Status(name string) InstallStatus {
	return c.status.Status(name)
}

// Events returns the change notification channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Wait blocks until every background resolution has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels background resolutions, waits for them and closes Events.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopping = true
	c.mu.Unlock()

	c.stop()
	c.wg.Wait()

	c.eventsMu.Lock()
	defer c.eventsMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

func (c *Controller) begin(query string) uint64 {
	c.mu.Lock()

	c.generation++
	generation := c.generation
	c.session = Session{
		Query:      query,
		Generation: generation,
		Filters:    c.session.Filters,
		Loading:    true,
	}
	c.engine.Reset()
	c.status.Reset(generation)
	c.mu.Unlock()

	c.publish(Event{Kind: EventSession, Generation: generation})

	return generation
}

func (c *Controller) complete(generation uint64, results []domain.PackageResult, err error) (Session, bool) {
	c.mu.Lock()

	if c.session.Generation != generation {
		snapshot := c.session.clone()
		c.mu.Unlock()

		return snapshot, false
	}

	session := c.session
	session.Loading = false

	switch {
	case err != nil:
		session.Err = domain.NewSearchError(domain.ErrProvider, err)
	case len(results) == 0:
		session.Err = domain.NewSearchError(domain.ErrEmptyQueryResult, nil)
	default:
		raw := domain.ClonePackages(results)
		session = session.withResults(raw, c.engine.Apply(generation, raw, session.Filters))
	}

	c.session = session
	snapshot := session.clone()
	c.mu.Unlock()

	c.publish(Event{Kind: EventSession, Generation: generation})

	return snapshot, true
}

func (c *Controller) refilterLocked(filters FilterSet) Session {
	session := c.session
	session.Filters = filters

	if !session.Loading && len(session.Raw) > 0 {
		session = session.withResults(session.Raw, c.engine.Apply(session.Generation, session.Raw, filters))
	}

	c.session = session

	return session.clone()
}

// resolveInBackground starts a resolution unless Close has begun, so no
// wg.Add can race with the wait in Close.
func (c *Controller) resolveInBackground(generation uint64, names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopping {
		c.logger.Debug("install status resolution skipped, controller closing", "generation", generation)

		return
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		c.resolver.Resolve(c.lifetime, generation, names)
		c.logger.Debug("install status resolved", "generation", generation, "packages", len(names))
	}()
}

func (c *Controller) publish(evt Event) {
	c.eventsMu.Lock()
	defer c.eventsMu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.events <- evt:
	default:
	}
}
