// Package schedule launches recurring games on cron expressions. Every
// trigger goes through the task registry's normal admission, so a schedule
// firing while a game is in flight records a skipped run instead of starting
// a second game.
package schedule

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	robcron "github.com/robfig/cron/v3"

	"github.com/a2639443196/liars-bar-llm/engine"
)

// SubmitFunc starts a game and returns its task id.
type SubmitFunc func(players []engine.Player) (string, error)

// Job is one recurring game launch.
type Job struct {
	Name      string          `json:"name"`
	CronExpr  string          `json:"cron_expr"`
	Players   []engine.Player `json:"players"`
	LastRun   time.Time       `json:"last_run,omitempty"`
	NextRun   time.Time       `json:"next_run,omitempty"`
	LastTask  string          `json:"last_task_id,omitempty"`
	LastErr   string          `json:"last_error,omitempty"`
	RunCount  int             `json:"run_count"`
	SkipCount int             `json:"skip_count"`
}

type managedJob struct {
	Job
	entryID robcron.EntryID
}

// Scheduler manages the recurring jobs.
type Scheduler struct {
	mu      sync.RWMutex
	cron    *robcron.Cron
	jobs    map[string]*managedJob
	submit  SubmitFunc
	started bool
}

func New(submit SubmitFunc) *Scheduler {
	return &Scheduler{
		cron:   robcron.New(),
		jobs:   make(map[string]*managedJob),
		submit: submit,
	}
}

// Add registers a recurring game. Returns an error for a duplicate name or
// an invalid cron expression.
func (s *Scheduler) Add(name, cronExpr string, players []engine.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return fmt.Errorf("schedule: job name is required")
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("schedule: job %q already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.trigger(name)
	})
	if err != nil {
		return fmt.Errorf("schedule: invalid cron expression %q: %w", cronExpr, err)
	}

	mj := &managedJob{
		Job: Job{
			Name:     name,
			CronExpr: cronExpr,
			Players:  players,
		},
		entryID: entryID,
	}
	if entry := s.cron.Entry(entryID); !entry.Next.IsZero() {
		mj.NextRun = entry.Next
	}
	s.jobs[name] = mj
	return nil
}

// Remove deletes a job by name.
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mj, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("schedule: job %q not found", name)
	}
	s.cron.Remove(mj.entryID)
	delete(s.jobs, name)
	return nil
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, 0, len(s.jobs))
	for _, mj := range s.jobs {
		j := mj.Job
		if entry := s.cron.Entry(mj.entryID); !entry.Next.IsZero() {
			j.NextRun = entry.Next
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// RunNow triggers a job immediately, outside its cron schedule.
func (s *Scheduler) RunNow(name string) (string, error) {
	s.mu.RLock()
	_, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("schedule: job %q not found", name)
	}
	return s.trigger(name)
}

func (s *Scheduler) trigger(name string) (string, error) {
	s.mu.Lock()
	mj, ok := s.jobs[name]
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("schedule: job %q not found", name)
	}
	players := mj.Players
	s.mu.Unlock()

	taskID, err := s.submit(players)

	s.mu.Lock()
	defer s.mu.Unlock()
	mj, ok = s.jobs[name]
	if !ok {
		return taskID, err
	}
	mj.LastRun = time.Now()
	if entry := s.cron.Entry(mj.entryID); !entry.Next.IsZero() {
		mj.NextRun = entry.Next
	}
	if err != nil {
		mj.SkipCount++
		mj.LastErr = err.Error()
		log.Printf("schedule: job %q skipped: %v", name, err)
		return "", err
	}
	mj.RunCount++
	mj.LastTask = taskID
	mj.LastErr = ""
	return taskID, nil
}

// Start begins firing cron entries. Safe to call once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
}

// Stop halts the cron runner; running games are unaffected.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.cron.Stop()
}
