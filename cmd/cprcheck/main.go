package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gookit/color"

	"cprcheck/internal/cli"
)

func main() {
	cmd := cli.New()

	// one context drives the run; cancelling it stops any batch in flight
	ctx, cancel := context.WithCancel(context.Background())
	cmd.SetContext(ctx)

	// signal handling stays in main so the cli package remains usable as a library
	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt)

	defer func() {
		signal.Stop(signals)
		cancel()
	}()

	go func() {
		select {
		case <-signals: // first signal, cancel context
			cancel()
		case <-ctx.Done():
		}
		<-signals // second signal, hard exit
		os.Exit(1)
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("error: %v", err))
		defer os.Exit(1)
	}
}
