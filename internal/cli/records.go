package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/a2639443196/liars-bar-llm/config"
	"github.com/a2639443196/liars-bar-llm/record"
)

func runRecords(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("records: %v", err)
		return 1
	}
	store, err := record.NewStore(cfg.BaseDir, cfg.RecordDirs)
	if err != nil {
		log.Printf("records: %v", err)
		return 1
	}
	summaries, err := store.List(ctx)
	if err != nil {
		log.Printf("records: %v", err)
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tWINNER\tROUNDS\tSOURCE\tUPDATED")
	for _, s := range summaries {
		winner := s.Winner
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.GameID, winner, s.RoundCount, s.Source, humanize.Time(s.ModTime()))
	}
	_ = w.Flush()

	stats := record.Summarize(summaries)
	fmt.Printf("\n%d records, %d distinct players\n", stats.TotalRecords, len(stats.UniquePlayers))
	for _, wc := range stats.WinnerBreakdown {
		fmt.Printf("  %s: %d\n", wc.Name, wc.Count)
	}
	return 0
}
