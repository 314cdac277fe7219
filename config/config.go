// Package config loads the server configuration from an optional YAML file
// with environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/a2639443196/liars-bar-llm/engine"
	envcfg "github.com/a2639443196/liars-bar-llm/internal/config"
)

// Schedule is one recurring game launch read from the config file.
type Schedule struct {
	Name    string          `yaml:"name"`
	Cron    string          `yaml:"cron"`
	Players []engine.Player `yaml:"players"`
}

type Engine struct {
	Command []string `yaml:"command"`
	Dir     string   `yaml:"dir"`
}

type Config struct {
	Addr           string          `yaml:"addr"`
	BaseDir        string          `yaml:"base_dir"`
	RecordDirs     []string        `yaml:"record_dirs"`
	AuditDB        string          `yaml:"audit_db"`
	TraceEnabled   bool            `yaml:"trace_enabled"`
	EventBuffer    int             `yaml:"event_buffer"`
	Engine         Engine          `yaml:"engine"`
	DefaultPlayers []engine.Player `yaml:"default_players"`
	Schedules      []Schedule      `yaml:"schedules"`
}

// DefaultPlayersRoster is used when neither the config file nor a request
// supplies a roster.
var DefaultPlayersRoster = []engine.Player{
	{Name: "DeepSeek", Model: "deepseek-chat"},
	{Name: "ChatGPT", Model: "gpt-4o"},
	{Name: "Claude", Model: "claude-3-7-sonnet"},
	{Name: "Gemini", Model: "gemini-2.0-flash"},
}

// Load reads path (empty means defaults only), applies defaults, then env
// overrides. A missing file at an explicitly provided path is an error; the
// default path is allowed to be absent.
func Load(path string) (Config, error) {
	var cfg Config
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = "liarsbar.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults only
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, cfg.validate()
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = "0.0.0.0:8000"
	}
	if strings.TrimSpace(c.BaseDir) == "" {
		c.BaseDir = "."
	}
	if len(c.RecordDirs) == 0 {
		c.RecordDirs = []string{
			"game_records",
			filepath.Join("demo_records", "game_records"),
		}
	}
	if len(c.Engine.Command) == 0 {
		c.Engine.Command = []string{"python3", "game.py"}
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 256
	}
	if len(c.DefaultPlayers) == 0 {
		c.DefaultPlayers = DefaultPlayersRoster
	}
}

func (c *Config) applyEnv() {
	c.Addr = envcfg.StringEnv("LIARSBAR_ADDR", c.Addr)
	c.BaseDir = envcfg.StringEnv("LIARSBAR_BASE_DIR", c.BaseDir)
	c.AuditDB = envcfg.StringEnv("LIARSBAR_AUDIT_DB", c.AuditDB)
	c.TraceEnabled = envcfg.ParseBoolEnv("LIARSBAR_TRACE", c.TraceEnabled)
	c.EventBuffer = envcfg.ParseIntEnv("LIARSBAR_EVENT_BUFFER", c.EventBuffer)
	if dirs := envcfg.ParseListEnv("LIARSBAR_RECORD_DIRS"); len(dirs) > 0 {
		c.RecordDirs = dirs
	}
}

func (c *Config) validate() error {
	for _, s := range c.Schedules {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("config: schedule entry without a name")
		}
		if strings.TrimSpace(s.Cron) == "" {
			return fmt.Errorf("config: schedule %q has no cron expression", s.Name)
		}
	}
	for _, p := range c.DefaultPlayers {
		if p.Name == "" || p.Model == "" {
			return fmt.Errorf("config: default player entries need both name and model")
		}
	}
	return nil
}
