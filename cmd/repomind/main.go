// File: cmd/repomind/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/repomind-cli/cmd"
	"github.com/xkilldash9x/repomind-cli/internal/observability"
)

func main() {
	// Graceful shutdown on SIGINT/SIGTERM: cancellation aborts the current
	// generation attempt rather than falling through to the next backend.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}
