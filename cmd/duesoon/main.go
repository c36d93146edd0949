// Package main implements the duesoon command, which emails assignees a
// reminder for every task whose deadline is a few days away.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/duesoon/internal/redact"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(openApplication).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", redact.Error(err))
		stop()
		os.Exit(1)
	}
}
