// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package search_test

import (
	"testing"

	"github.com/janderssonse/pacsift/internal/domain"
	"github.com/janderssonse/pacsift/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "padded two words", input: "  Fire Fox  ", expected: "fire-fox"},
		{name: "single word", input: "vim", expected: "vim"},
		{name: "uppercase", input: "HTOP", expected: "htop"},
		{name: "whitespace runs", input: "visual \t studio\n code", expected: "visual-studio-code"},
		{name: "existing hyphen kept", input: "python-requests", expected: "python-requests"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := search.Normalize(testCase.input)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestNormalizeRejectsBlankInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := search.Normalize(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}
