// Command recruit-admin runs the recruitment admin console, its development backend,
// and terminal commands that share the console's admin session model.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
			os.Exit(130) //nolint:forbidigo // conventional exit status for SIGINT
		}
		// The terminal navigator has already told the operator to log in again.
		if !errors.Is(err, errSessionExpired) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1) //nolint:forbidigo // CLI must propagate command failure to callers
	}
}
