package schedule

import (
	"fmt"
	"testing"

	"github.com/a2639443196/liars-bar-llm/engine"
)

var roster = []engine.Player{{Name: "A", Model: "m"}}

func TestAddRejectsBadInput(t *testing.T) {
	s := New(func([]engine.Player) (string, error) { return "t1", nil })

	if err := s.Add("", "@hourly", roster); err == nil {
		t.Error("empty name accepted")
	}
	if err := s.Add("nightly", "not a cron expr", roster); err == nil {
		t.Error("invalid cron expression accepted")
	}
	if err := s.Add("nightly", "0 3 * * *", roster); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}
	if err := s.Add("nightly", "0 4 * * *", roster); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestRunNowSubmitsAndRecords(t *testing.T) {
	submitted := 0
	s := New(func(players []engine.Player) (string, error) {
		submitted++
		if len(players) != 1 {
			t.Errorf("roster not passed through: %v", players)
		}
		return fmt.Sprintf("task-%d", submitted), nil
	})
	if err := s.Add("nightly", "@daily", roster); err != nil {
		t.Fatal(err)
	}

	taskID, err := s.RunNow("nightly")
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if taskID != "task-1" {
		t.Errorf("task id = %q", taskID)
	}

	jobs := s.List()
	if len(jobs) != 1 {
		t.Fatalf("List returned %d jobs", len(jobs))
	}
	j := jobs[0]
	if j.RunCount != 1 || j.SkipCount != 0 || j.LastTask != "task-1" || j.LastErr != "" {
		t.Errorf("job state after run: %+v", j)
	}
	if j.LastRun.IsZero() {
		t.Error("last run not recorded")
	}
}

func TestBusyRegistryRecordsSkip(t *testing.T) {
	s := New(func([]engine.Player) (string, error) {
		return "", fmt.Errorf("task: a game is already running")
	})
	if err := s.Add("nightly", "@daily", roster); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RunNow("nightly"); err == nil {
		t.Fatal("expected skip error")
	}

	j := s.List()[0]
	if j.SkipCount != 1 || j.RunCount != 0 || j.LastErr == "" {
		t.Errorf("job state after skip: %+v", j)
	}
}

func TestRemove(t *testing.T) {
	s := New(func([]engine.Player) (string, error) { return "t", nil })
	if err := s.Add("nightly", "@daily", roster); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("nightly"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("nightly"); err == nil {
		t.Error("removing a missing job succeeded")
	}
	if _, err := s.RunNow("nightly"); err == nil {
		t.Error("RunNow on removed job succeeded")
	}
	if len(s.List()) != 0 {
		t.Error("job still listed after removal")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := New(func([]engine.Player) (string, error) { return "t", nil })
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
