package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/mmcdole/moviebuddy/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, tui.ErrCancelled) && !errors.Is(err, errReported) {
			renderError(tui.NewConsole(os.Stdin, os.Stderr), err)
		}
		os.Exit(1)
	}
}
