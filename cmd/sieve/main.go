package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/sieve/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	capitan.Shutdown()
	if err != nil {
		os.Exit(1)
	}
}
