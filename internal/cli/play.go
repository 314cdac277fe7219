package cli

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/a2639443196/liars-bar-llm/config"
	"github.com/a2639443196/liars-bar-llm/engine"
)

// runPlay launches one game in the foreground, without the HTTP layer or the
// task registry. Useful for smoke-testing an engine command.
func runPlay(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("play: %v", err)
		return 1
	}

	eng := &engine.ExecEngine{
		Command: cfg.Engine.Command,
		Dir:     firstNonEmpty(cfg.Engine.Dir, cfg.BaseDir),
	}
	log.Printf("starting game with %d players", len(cfg.DefaultPlayers))
	recordPath, err := eng.Run(ctx, cfg.DefaultPlayers)
	if err != nil {
		log.Printf("play: %v", err)
		return 1
	}
	fmt.Println(recordPath)
	return 0
}
