// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the search core. Match with errors.Is.
var (
	ErrValidation       = errors.New("invalid search query")
	ErrProvider         = errors.New("package index unavailable")
	ErrEmptyQueryResult = errors.New("no results found")
	ErrFilterEmpty      = errors.New("no results for the selected repositories")
	ErrLookup           = errors.New("install status lookup failed")
)

// ErrNotInSession is returned when selecting a package the current session never returned.
var ErrNotInSession = errors.New("package is not part of the current results")

// SearchError is the error state of a search session.
type SearchError struct {
	Kind error // one of the Err* kinds above
	Err  error // underlying cause, may be nil
}

// NewSearchError creates a SearchError of the given kind.
func NewSearchError(kind, cause error) *SearchError {
	return &SearchError{Kind: kind, Err: cause}
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}

	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *SearchError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}

	return []error{e.Kind}
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// UserMessage returns the message shown to the user for a search error.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "Please enter a search term"
	case errors.Is(err, ErrEmptyQueryResult):
		return "No results found"
	case errors.Is(err, ErrFilterEmpty):
		return "No results for the selected repositories"
	case errors.Is(err, ErrProvider):
		return "An error occurred while searching. Please try again."
	default:
		return "Operation failed"
	}
}

// getErrorMatchers returns error patterns and their corresponding info.
func getErrorMatchers() []struct {
	patterns []string
	getInfo  func(bool) ErrorInfo
} {
	return []struct {
		patterns []string
		getInfo  func(bool) ErrorInfo
	}{
		{
			patterns: []string{"deadline exceeded", "timeout"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "The package index did not answer in time",
					Suggestions: []string{"Try again in a few moments", "Raise [search] timeout in config.toml"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"network", "connection", "no such host", "dial tcp"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Network connection failed",
					Suggestions: []string{"Check your internet connection", "Check HTTP_PROXY/HTTPS_PROXY"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"status 5", "status 429"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "The package index is having trouble",
					Suggestions: []string{"Try again in a few moments"},
					ShowDetails: verbose,
				}
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	if !errors.Is(err, ErrProvider) {
		return ErrorInfo{Message: UserMessage(err), ShowDetails: verbose}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range getErrorMatchers() {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				return matcher.getInfo(verbose)
			}
		}
	}

	return ErrorInfo{
		Message:     UserMessage(err),
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats an error for display.
func FormatErrorMessage(err error, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(info.Message)

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	if len(info.Suggestions) > 0 && !verbose {
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	} else if len(info.Suggestions) > 0 {
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}

// ExitError provides specific exit codes for different failure modes.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
