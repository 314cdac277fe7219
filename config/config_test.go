package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/a2639443196/liars-bar-llm/engine"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "0.0.0.0:8000" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.BaseDir != "." {
		t.Errorf("base dir = %q", cfg.BaseDir)
	}
	want := []string{"game_records", filepath.Join("demo_records", "game_records")}
	if diff := cmp.Diff(want, cfg.RecordDirs); diff != "" {
		t.Errorf("record dirs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(DefaultPlayersRoster, cfg.DefaultPlayers); diff != "" {
		t.Errorf("default players (-want +got):\n%s", diff)
	}
	if cfg.EventBuffer != 256 {
		t.Errorf("event buffer = %d", cfg.EventBuffer)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "liarsbar.yaml")
	body := `
addr: "127.0.0.1:9000"
base_dir: /srv/liarsbar
record_dirs:
  - game_records
audit_db: /srv/liarsbar/audit.db
trace_enabled: true
engine:
  command: ["python3", "game.py", "--fast"]
default_players:
  - name: Alpha
    model: model-a
  - name: Beta
    model: model-b
schedules:
  - name: nightly
    cron: "0 3 * * *"
    players:
      - name: Alpha
        model: model-a
      - name: Beta
        model: model-b
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.BaseDir != "/srv/liarsbar" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.TraceEnabled {
		t.Error("trace_enabled not parsed")
	}
	if diff := cmp.Diff([]string{"python3", "game.py", "--fast"}, cfg.Engine.Command); diff != "" {
		t.Errorf("engine command (-want +got):\n%s", diff)
	}
	if len(cfg.Schedules) != 1 || cfg.Schedules[0].Name != "nightly" {
		t.Errorf("schedules = %+v", cfg.Schedules)
	}
	want := []engine.Player{{Name: "Alpha", Model: "model-a"}, {Name: "Beta", Model: "model-b"}}
	if diff := cmp.Diff(want, cfg.DefaultPlayers); diff != "" {
		t.Errorf("players (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicitly named missing file must error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LIARSBAR_ADDR", "127.0.0.1:1234")
	t.Setenv("LIARSBAR_RECORD_DIRS", "a, b ,")
	t.Setenv("LIARSBAR_TRACE", "yes")
	t.Setenv("LIARSBAR_EVENT_BUFFER", "32")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:1234" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.RecordDirs); diff != "" {
		t.Errorf("record dirs (-want +got):\n%s", diff)
	}
	if !cfg.TraceEnabled {
		t.Error("trace env override ignored")
	}
	if cfg.EventBuffer != 32 {
		t.Errorf("event buffer override ignored: %d", cfg.EventBuffer)
	}
}

func TestValidateRejectsBrokenSchedules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("schedules:\n  - cron: \"@daily\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("schedule without a name must be rejected")
	}
}
