package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// ExecEngine launches the game as an external process. The roster is written
// to the process's stdin as JSON; the process is expected to print, as its
// last non-empty stdout line, a JSON object of the form
// {"record_path": "game_records/<game_id>.json"}.
//
// No timeout is imposed here: once admitted, a game runs until the process
// exits. The ctx is still honored so a shutting-down host can kill the child.
type ExecEngine struct {
	Command []string
	Dir     string
}

type execReport struct {
	RecordPath string `json:"record_path"`
	Error      string `json:"error"`
}

func (e *ExecEngine) Run(ctx context.Context, players []Player) (string, error) {
	if e == nil || len(e.Command) == 0 {
		return "", fmt.Errorf("engine: no command configured")
	}
	input, err := json.Marshal(map[string]any{"players": players})
	if err != nil {
		return "", fmt.Errorf("engine: encode roster: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("engine: %s: %w%s", e.Command[0], err, tail(stderr.String()))
	}

	report, err := parseReport(stdout.String())
	if err != nil {
		return "", err
	}
	if report.Error != "" {
		return "", fmt.Errorf("engine: %s", report.Error)
	}
	if report.RecordPath == "" {
		return "", fmt.Errorf("engine: %s reported no record path", e.Command[0])
	}
	return report.RecordPath, nil
}

// parseReport finds the last non-empty stdout line and decodes it. Everything
// the engine prints before that line (progress, logs) is ignored.
func parseReport(out string) (execReport, error) {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var report execReport
		if err := json.Unmarshal([]byte(line), &report); err != nil {
			return execReport{}, fmt.Errorf("engine: unreadable report line %q: %w", line, err)
		}
		return report, nil
	}
	return execReport{}, fmt.Errorf("engine: process produced no output")
}

func tail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, "; ")
}

var _ Engine = (*ExecEngine)(nil)
