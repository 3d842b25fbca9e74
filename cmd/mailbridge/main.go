// Command mailbridge renders templated emails and sends them through the
// configured provider.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(loadApp).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
