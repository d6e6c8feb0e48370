// Command astra streams answers from an Astra server and decodes recorded
// stream captures.
//
// Usage:
//
//	astra chat [flags] TEXT
//	astra replay [flags] PATTERN...
//
// Global flags:
//
//	--config string      Path to YAML config file (default: .astra/config.yaml)
//	--log-level string   Log level: debug, info, warn, error (overrides config)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "astra: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr, os.Getenv)
	return cmd.ExecuteContext(ctx)
}
