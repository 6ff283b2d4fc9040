// Command dsopt runs synthetic workloads against monitored data structures and
// prints optimization reports.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/dsopt/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(ctx)
	stop()
	os.Exit(code)
}
