// Package task owns the asynchronous game jobs: admission, execution off the
// request path, and terminal state.
package task

import (
	"errors"
	"time"

	"github.com/a2639443196/liars-bar-llm/engine"
)

type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

var (
	// ErrAlreadyRunning rejects a submission while another game is in flight.
	ErrAlreadyRunning = errors.New("task: a game is already running")
	// ErrInvalidConfig rejects a malformed roster.
	ErrInvalidConfig = errors.New("task: invalid job config")
)

// Config is the roster a game is started with.
type Config struct {
	Players []engine.Player `json:"players"`
}

// Validate checks the roster. An empty roster is invalid here; callers that
// want the default roster substitute it before submitting.
func (c Config) Validate() error {
	if len(c.Players) == 0 {
		return ErrInvalidConfig
	}
	for _, p := range c.Players {
		if p.Name == "" || p.Model == "" {
			return ErrInvalidConfig
		}
	}
	return nil
}

// Task is one asynchronous game job. Status moves running→finished or
// running→failed exactly once; RecordID/RecordPath are set iff finished,
// Error iff failed. Tasks are retained for the life of the process.
type Task struct {
	ID          string    `json:"task_id"`
	Status      Status    `json:"status"`
	Config      Config    `json:"config"`
	RecordID    string    `json:"record_id,omitempty"`
	RecordPath  string    `json:"record_path,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}
