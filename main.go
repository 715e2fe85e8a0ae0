// gosock - an IPv4 TCP socket tool built on the gosock/socket package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gosock/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gosock: %v\n", err)
		os.Exit(1)
	}
}
