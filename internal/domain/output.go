// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// OutputPort defines the interface for presenting command results.
// This is a domain port that adapters implement for different output formats.
type OutputPort interface {
	// Success outputs a success message with optional structured data
	Success(message string, data any) error

	// Error outputs an error message
	Error(message string) error

	// Info outputs an informational message
	Info(message string) error

	// Table outputs tabular data
	Table(headers []string, rows [][]string) error

	// IsQuiet returns true if output should be suppressed
	IsQuiet() bool
}

// SearchReport is the structured result of a non-interactive search.
type SearchReport struct {
	Query     string          `json:"query" yaml:"query"`
	Filters   []Repository    `json:"filters,omitempty" yaml:"filters,omitempty"`
	Total     int             `json:"total" yaml:"total"`
	Packages  []ReportPackage `json:"packages" yaml:"packages"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
}

// ReportPackage is a displayed package annotated with its install status.
type ReportPackage struct {
	PackageResult `yaml:",inline"`

	Installed bool `json:"installed" yaml:"installed"`
}
