// Command partaudit audits time-partitioned stream directories for
// partitions written out of order and for missing minute partitions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"partaudit/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "partaudit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, os.Args[1:], app.Options{})
}
