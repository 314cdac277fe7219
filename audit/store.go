// Package audit keeps a durable trail of task lifecycle transitions. Task
// state itself is in-memory only, so the audit log is what survives a
// restart.
package audit

import (
	"context"
	"time"
)

type Entry struct {
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
