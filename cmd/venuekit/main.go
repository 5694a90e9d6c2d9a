// Package main provides the venuekit CLI, the launcher for the POS
// onboarding toolkit: it syncs the tool manifest, installs versioned
// tools on demand, and runs them as child processes with a shared SQL
// connection context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/venueforge/venuekit/pkg/types"
)

func main() {
	// Ctrl-C cancels the command context, which kills any running tool.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "venuekit:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor classifies an error as a user mistake or a system failure.
func exitCodeFor(err error) int {
	userErrors := []error{
		types.ErrManifestMissing,
		types.ErrToolNotFound,
		types.ErrToolNotInstalled,
		types.ErrRunNotFound,
		types.ErrManifestURLEmpty,
		types.ErrManifestURLInvalid,
		types.ErrDriverUnknown,
		types.ErrDSNEmpty,
		errAborted,
		errToolFailed,
	}
	for _, ue := range userErrors {
		if errors.Is(err, ue) {
			return exitUserError
		}
	}
	return exitSysError
}
