package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// TestServeFiresScheduledGames boots the full serve wiring with a fast cron
// schedule and a stub engine, then waits for the schedule to actually submit
// a game. The scheduled submission runs on a cron goroutine and publishes
// events through the server's sink, so this covers the startup ordering
// between the scheduler and the server.
func TestServeFiresScheduledGames(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub engine needs a POSIX shell")
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "game_records"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "liarsbar.yaml")
	body := fmt.Sprintf(`addr: "127.0.0.1:0"
base_dir: %q
record_dirs:
  - game_records
engine:
  command: ["sh", "-c", "touch ran && echo '{\"record_path\": \"game_records/s1.json\"}'"]
schedules:
  - name: tick
    cron: "@every 1s"
`, dir)
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan int, 1)
	go func() { done <- Run(ctx, []string{"serve", "-config", cfgPath}) }()

	marker := filepath.Join(dir, "ran")
	deadline := time.After(10 * time.Second)
	for {
		if _, err := os.Stat(marker); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scheduled game never ran")
		case code := <-done:
			t.Fatalf("serve exited early with code %d", code)
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("serve exit code = %d", code)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}
