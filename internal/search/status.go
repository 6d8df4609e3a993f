// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search

import (
	"maps"
	"sync"
)

// InstallStatus is the resolved local state of a package.
type InstallStatus int

// Install statuses. Unknown renders as not installed.
const (
	StatusUnknown InstallStatus = iota
	StatusInstalled
	StatusNotInstalled
)

func (s InstallStatus) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusNotInstalled:
		return "not installed"
	default:
		return "unknown"
	}
}

// StatusMap maps package names to install state for one generation.
// Writes tagged with any other generation are discarded, and reads never
// block on pending lookups.
type StatusMap struct {
	mu         sync.RWMutex
	generation uint64
	entries    map[string]bool
}

// NewStatusMap creates an empty map at generation 0.
func NewStatusMap() *StatusMap {
	return &StatusMap{entries: make(map[string]bool)}
}

// Reset drops every entry and moves the map to generation.
func (m *StatusMap) Reset(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation = generation
	m.entries = make(map[string]bool)
}

// Apply records name -> installed if generation is still the live one.
// It reports whether the entry was written.
func (m *StatusMap) Apply(generation uint64, name string, installed bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return false
	}

	m.entries[name] = installed

	return true
}

// Forget marks name as unknown again if generation is still the live one.
func (m *StatusMap) Forget(generation uint64, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return false
	}

	delete(m.entries, name)

	return true
}

// Generation returns the generation the map currently accepts.
func (m *StatusMap) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.generation
}

// Status returns the recorded state of name.
func (m *StatusMap) Status(name string) InstallStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	installed, ok := m.entries[name]

	switch {
	case !ok:
		return StatusUnknown
	case installed:
		return StatusInstalled
	default:
		return StatusNotInstalled
	}
}

// Installed reports whether name is known to be installed.
func (m *StatusMap) Installed(name string) bool {
	return m.Status(name) == StatusInstalled
}

// Snapshot copies the entries together with their generation.
func (m *StatusMap) Snapshot() (uint64, map[string]bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.generation, maps.Clone(m.entries)
}
