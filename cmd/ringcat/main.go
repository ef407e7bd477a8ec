// File: cmd/ringcat/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ringcat copies stdin to stdout through a fixed-capacity byte ring.

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

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
