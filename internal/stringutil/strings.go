// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil provides display-width aware string helpers for Pacsift.
package stringutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most width cells, marking the cut with Ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(s, width, Ellipsis)
}

// PadRight fills s with spaces up to width cells. Longer text is truncated.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Wrap breaks s into at most maxLines lines of at most width cells on word
// boundaries. Text that does not fit ends with Ellipsis on the last line.
func Wrap(s string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}

	words := strings.Fields(s)
	lines := make([]string, 0, maxLines)

	var current strings.Builder

	for i, word := range words {
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case Width(current.String())+1+Width(word) <= width:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			if len(lines) == maxLines-1 {
				rest := current.String() + " " + strings.Join(words[i:], " ")

				return append(lines, Truncate(rest, width))
			}

			lines = append(lines, Truncate(current.String(), width))

			current.Reset()
			current.WriteString(word)
		}
	}

	if current.Len() > 0 {
		lines = append(lines, Truncate(current.String(), width))
	}

	return lines
}
