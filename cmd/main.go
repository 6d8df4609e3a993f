// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for pacsift.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janderssonse/pacsift/internal/cli"
	"github.com/janderssonse/pacsift/internal/console"
	"github.com/janderssonse/pacsift/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLI()

	if err := app.Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			console.DefaultOutput.Errorf("%s", exitErr.Message)

			if exitErr.Err != nil && isVerbose(os.Args[1:]) {
				fmt.Fprintf(os.Stderr, "  Technical details: %v\n", exitErr.Err)
			}

			return exitErr.Code
		}

		// Flag parsing and other framework errors
		console.DefaultOutput.Errorf("%v", err)

		return cli.ExitUsageError
	}

	return cli.ExitSuccess
}

func isVerbose(args []string) bool {
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}

	return false
}
