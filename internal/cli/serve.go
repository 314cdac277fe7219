package cli

import (
	"context"
	"errors"
	"flag"
	"log"

	otelglobal "go.opentelemetry.io/otel"

	"github.com/a2639443196/liars-bar-llm/api"
	"github.com/a2639443196/liars-bar-llm/audit"
	"github.com/a2639443196/liars-bar-llm/config"
	"github.com/a2639443196/liars-bar-llm/engine"
	"github.com/a2639443196/liars-bar-llm/observe"
	otelsink "github.com/a2639443196/liars-bar-llm/observe/otel"
	"github.com/a2639443196/liars-bar-llm/record"
	"github.com/a2639443196/liars-bar-llm/schedule"
	"github.com/a2639443196/liars-bar-llm/task"
)

func runServe(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("serve: %v", err)
		return 1
	}

	store, err := record.NewStore(cfg.BaseDir, cfg.RecordDirs)
	if err != nil {
		log.Printf("serve: %v", err)
		return 1
	}

	var auditStore audit.Store
	if cfg.AuditDB != "" {
		auditStore, err = audit.NewSQLiteStore(cfg.AuditDB)
		if err != nil {
			log.Printf("serve: %v", err)
			return 1
		}
		defer func() { _ = auditStore.Close() }()
	}

	eng := &engine.ExecEngine{
		Command: cfg.Engine.Command,
		Dir:     firstNonEmpty(cfg.Engine.Dir, cfg.BaseDir),
	}

	// The server publishes registry events to its stream watchers. The
	// pointer is assigned before the scheduler starts and before the
	// listener accepts requests, so every goroutine that can reach this
	// closure already observes the write.
	var srv *api.Server
	sinks := []observe.Sink{
		observe.SinkFunc(func(_ context.Context, event observe.Event) error {
			if srv != nil {
				srv.Emit(event)
			}
			return nil
		}),
	}
	if cfg.TraceEnabled {
		sinks = append(sinks, observe.NewAsyncSink(otelsink.NewSink(otelglobal.GetTracerProvider()), cfg.EventBuffer))
	}

	registry, err := task.NewRegistry(
		eng,
		store.BaseDir(),
		task.WithSink(observe.NewMultiSink(sinks...)),
		task.WithAudit(auditStore),
	)
	if err != nil {
		log.Printf("serve: %v", err)
		return 1
	}

	scheduler := schedule.New(func(players []engine.Player) (string, error) {
		roster := players
		if len(roster) == 0 {
			roster = cfg.DefaultPlayers
		}
		return registry.Submit(task.Config{Players: roster})
	})
	for _, sched := range cfg.Schedules {
		if err := scheduler.Add(sched.Name, sched.Cron, sched.Players); err != nil {
			log.Printf("serve: %v", err)
			return 1
		}
	}

	srv = api.NewServer(api.Config{
		Addr:           cfg.Addr,
		Records:        store,
		Registry:       registry,
		AuditStore:     auditStore,
		Scheduler:      scheduler,
		DefaultPlayers: cfg.DefaultPlayers,
	})
	defer func() { _ = srv.Close() }()

	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("listening on %s (records: %v)", cfg.Addr, cfg.RecordDirs)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("serve: %v", err)
		return 1
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
