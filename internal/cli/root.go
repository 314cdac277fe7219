package cli

import (
	"context"
	"strings"
)

// Run dispatches the CLI. The default subcommand is serve, so running the
// binary bare starts the backend.
func Run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		return runServe(ctx, nil)
	}

	switch strings.TrimSpace(args[0]) {
	case "serve":
		return runServe(ctx, args[1:])
	case "records":
		return runRecords(ctx, args[1:])
	case "play":
		return runPlay(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		printUsage()
		return 2
	}
}
