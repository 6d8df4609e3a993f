// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package search implements the search session state machine: query
// normalization, repository filtering, install status reconciliation and
// the controller sequencing them.
package search

import (
	"strings"

	"github.com/janderssonse/pacsift/internal/domain"
)

// Normalize turns free text into an index query: lowercase, trimmed, with
// every internal whitespace run replaced by a single hyphen.
func Normalize(raw string) (string, error) {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return "", domain.NewSearchError(domain.ErrValidation, nil)
	}

	return strings.Join(fields, "-"), nil
}
