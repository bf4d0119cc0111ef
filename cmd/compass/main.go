package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mpas-dev/compass/internal/cli"
)

// main is the entrypoint for the compass CLI.
func main() {
	// Use a minimal logger until the command configures the full one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
