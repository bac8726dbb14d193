package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/release-notes-generator/internal/clierr"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(defaultApp()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(clierr.ExitCodeOf(err))
	}
}
