package task

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/a2639443196/liars-bar-llm/audit"
	"github.com/a2639443196/liars-bar-llm/engine"
	"github.com/a2639443196/liars-bar-llm/observe"
	"github.com/a2639443196/liars-bar-llm/record"
)

// Registry tracks every game job for the life of the process. One mutex
// guards the whole table; the check-for-running test and the insert of a new
// task happen under the same critical section, so two concurrent Submit
// calls can never both be admitted.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]*Task
	order []string

	engine  engine.Engine
	baseDir string
	sink    observe.Sink
	audit   audit.Store
}

// Option configures optional registry collaborators.
type Option func(*Registry)

// WithSink routes task lifecycle events to the given sink.
func WithSink(sink observe.Sink) Option {
	return func(r *Registry) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// WithAudit records submissions and terminal transitions to the audit store.
func WithAudit(store audit.Store) Option {
	return func(r *Registry) { r.audit = store }
}

// NewRegistry creates an empty registry. eng runs the games; baseDir is the
// directory engine-reported record paths are resolved against when encoding
// result identifiers.
func NewRegistry(eng engine.Engine, baseDir string, opts ...Option) (*Registry, error) {
	if eng == nil {
		return nil, fmt.Errorf("task: engine is required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("task: resolve base dir: %w", err)
	}
	r := &Registry{
		tasks:   make(map[string]*Task),
		engine:  eng,
		baseDir: abs,
		sink:    observe.NoopSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Submit admits a new game job, or rejects it when one is already running.
// On admission the job body starts on its own goroutine and Submit returns
// the new task id immediately.
func (r *Registry) Submit(cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	for _, id := range r.order {
		if r.tasks[id].Status == StatusRunning {
			r.mu.Unlock()
			return "", ErrAlreadyRunning
		}
	}
	id := uuid.NewString()
	r.tasks[id] = &Task{
		ID:        id,
		Status:    StatusRunning,
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.emit(observe.Event{
		TaskID: id,
		Kind:   observe.KindTask,
		Status: observe.StatusStarted,
		Name:   "task.submitted",
		Attributes: map[string]any{
			"players": len(cfg.Players),
		},
	})
	r.record(id, "task.submitted", fmt.Sprintf("%d players", len(cfg.Players)))

	go r.execute(id, cfg)
	return id, nil
}

// Get returns a snapshot copy of one task.
func (r *Registry) Get(id string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// List returns snapshot copies of all tasks in submission order.
func (r *Registry) List() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.tasks[id])
	}
	return out
}

// execute runs the job body. It is the only writer of a task's terminal
// state; engine errors and panics alike end as StatusFailed, never as a
// crashed process or a silently dead goroutine.
func (r *Registry) execute(id string, cfg Config) {
	defer func() {
		if rec := recover(); rec != nil {
			r.setFailed(id, fmt.Sprintf("engine panic: %v", rec))
		}
	}()

	path, err := r.engine.Run(context.Background(), cfg.Players)
	if err != nil {
		r.setFailed(id, err.Error())
		return
	}

	rel, err := r.relativize(path)
	if err != nil {
		r.setFailed(id, err.Error())
		return
	}
	r.setFinished(id, record.EncodePath(filepath.ToSlash(rel)), filepath.ToSlash(rel))
}

// relativize maps the engine-reported record path onto the identifier base
// directory. The engine may report either an absolute path or one already
// relative to the base.
func (r *Registry) relativize(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	rel, err := filepath.Rel(r.baseDir, path)
	if err != nil {
		return "", fmt.Errorf("task: record path %s outside base dir: %w", path, err)
	}
	return rel, nil
}

func (r *Registry) setFinished(id, recordID, recordPath string) {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if !ok || t.Status != StatusRunning {
		r.mu.Unlock()
		return
	}
	t.Status = StatusFinished
	t.RecordID = recordID
	t.RecordPath = recordPath
	t.CompletedAt = time.Now().UTC()
	r.mu.Unlock()

	r.emit(observe.Event{
		TaskID: id,
		Kind:   observe.KindTask,
		Status: observe.StatusCompleted,
		Name:   "task.finished",
		Attributes: map[string]any{
			"record_path": recordPath,
		},
	})
	r.record(id, "task.finished", recordPath)
}

func (r *Registry) setFailed(id, errText string) {
	r.mu.Lock()
	t, ok := r.tasks[id]
	if !ok || t.Status != StatusRunning {
		r.mu.Unlock()
		return
	}
	t.Status = StatusFailed
	t.Error = errText
	t.CompletedAt = time.Now().UTC()
	r.mu.Unlock()

	r.emit(observe.Event{
		TaskID: id,
		Kind:   observe.KindTask,
		Status: observe.StatusFailed,
		Name:   "task.failed",
		Error:  errText,
	})
	r.record(id, "task.failed", errText)
}

func (r *Registry) emit(event observe.Event) {
	if r.sink == nil {
		return
	}
	event.Normalize()
	_ = r.sink.Emit(context.Background(), event)
}

func (r *Registry) record(id, action, detail string) {
	if r.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = r.audit.Record(ctx, audit.Entry{TaskID: id, Action: action, Detail: detail})
}
