// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides port doubles and fixtures shared by tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockSearchProvider mocks the SearchProvider port for testing.
type MockSearchProvider struct {
	mock.Mock
}

// Search mocks a remote index query.
func (m *MockSearchProvider) Search(ctx context.Context, query string) ([]domain.PackageResult, error) {
	args := m.Called(ctx, query)
	if result := args.Get(0); result != nil {
		res, ok := result.([]domain.PackageResult)
		if !ok {
			return nil, args.Error(1)
		}

		return res, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockInstallStore mocks the LocalInstallStore port for testing.
type MockInstallStore struct {
	mock.Mock
}

// IsInstalled mocks checking if a package is installed.
func (m *MockInstallStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockCommandRunner is a mock implementation of CommandRunner port.
type MockCommandRunner struct {
	mock.Mock
}

// ExecuteWithOutput mocks command execution with output.
func (m *MockCommandRunner) ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error) {
	// Convert variadic args to interface slice for mock.Called
	callArgs := make([]any, 0, len(args)+2)

	callArgs = append(callArgs, ctx, name)
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}

	returnArgs := m.Called(callArgs...)

	return returnArgs.String(0), returnArgs.Error(1)
}

// CommandExists mocks checking if a command exists.
func (m *MockCommandRunner) CommandExists(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

// GatedStore is a LocalInstallStore whose lookups block until released,
// so tests can order completions against newer searches.
type GatedStore struct {
	mu        sync.Mutex
	installed map[string]bool
	failing   map[string]error
	gates     map[string]chan struct{}
	calls     []string
}

// NewGatedStore creates a store reporting installed for the given names.
func NewGatedStore(installed ...string) *GatedStore {
	store := &GatedStore{
		installed: make(map[string]bool),
		failing:   make(map[string]error),
		gates:     make(map[string]chan struct{}),
	}

	for _, name := range installed {
		store.installed[name] = true
	}

	return store
}

// Hold makes lookups of name block until Release is called.
func (s *GatedStore) Hold(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gates[name] = make(chan struct{})
}

// Release unblocks pending and future lookups of name.
func (s *GatedStore) Release(name string) {
	s.mu.Lock()
	gate, ok := s.gates[name]
	delete(s.gates, name)
	s.mu.Unlock()

	if ok {
		close(gate)
	}
}

// Fail makes lookups of name return err.
func (s *GatedStore) Fail(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failing[name] = err
}

// SetInstalled changes the reported state of name.
func (s *GatedStore) SetInstalled(name string, installed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.installed[name] = installed
}

// Calls returns the looked up names in call order.
func (s *GatedStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

// IsInstalled implements domain.LocalInstallStore. The answer is taken when
// the lookup starts, before waiting on a held gate.
func (s *GatedStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	gate := s.gates[name]
	installed, err := s.installed[name], s.failing[name]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false, fmt.Errorf("lookup %s: %w", name, ctx.Err())
		}
	}

	if err != nil {
		return false, err
	}

	return installed, nil
}

// StaticProvider is a SearchProvider answering from a fixed table.
type StaticProvider struct {
	mu      sync.Mutex
	results map[string][]domain.PackageResult
	errs    map[string]error
	gates   map[string]chan struct{}
	queries []string
}

// NewStaticProvider creates an empty provider; unknown queries return no results.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		results: make(map[string][]domain.PackageResult),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

// Add registers results for query.
func (p *StaticProvider) Add(query string, results ...domain.PackageResult) *StaticProvider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results[query] = results

	return p
}

// Fail makes query return err.
func (p *StaticProvider) Fail(query string, err error) *StaticProvider {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errs[query] = err

	return p
}

// Hold makes query block until Release is called.
func (p *StaticProvider) Hold(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gates[query] = make(chan struct{})
}

// Release unblocks query.
func (p *StaticProvider) Release(query string) {
	p.mu.Lock()
	gate, ok := p.gates[query]
	delete(p.gates, query)
	p.mu.Unlock()

	if ok {
		close(gate)
	}
}

// Queries returns the received queries in order.
func (p *StaticProvider) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.queries...)
}

// Search implements domain.SearchProvider.
func (p *StaticProvider) Search(ctx context.Context, query string) ([]domain.PackageResult, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	gate := p.gates[query]
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("search %s: %w", query, ctx.Err())
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.errs[query]; err != nil {
		return nil, err
	}

	return domain.ClonePackages(p.results[query]), nil
}

// Package builds a result fixture.
func Package(name string, repo domain.Repository) domain.PackageResult {
	return domain.PackageResult{
		Name:         name,
		Version:      "1.0.0-1",
		Description:  name + " test package",
		Repository:   repo,
		Maintainer:   "tester",
		UpstreamURL:  "https://example.org/" + name,
		Dependencies: []string{"glibc"},
		LastUpdated:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Packages builds count fixtures named prefix-N in repo.
func Packages(prefix string, repo domain.Repository, count int) []domain.PackageResult {
	out := make([]domain.PackageResult, 0, count)
	for i := range count {
		out = append(out, Package(fmt.Sprintf("%s-%d", prefix, i), repo))
	}

	return out
}

// WaitWithTimeout polls fn until it returns true or timeout elapses.
func WaitWithTimeout(fn func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}

		time.Sleep(10 * time.Millisecond)
	}

	return false
}
