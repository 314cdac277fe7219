package observe

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	var e Event
	e.Normalize()
	if e.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if e.Kind != KindCustom {
		t.Errorf("kind = %q", e.Kind)
	}
	if e.Attributes == nil {
		t.Error("attributes not initialized")
	}
}

func TestMultiSinkFansOutInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Sink {
		return SinkFunc(func(_ context.Context, _ Event) error {
			order = append(order, name)
			return nil
		})
	}
	sink := NewMultiSink(mk("a"), nil, mk("b"))
	if err := sink.Emit(context.Background(), Event{}); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v", order)
	}
}

func TestMultiSinkContinuesPastFailingSink(t *testing.T) {
	boom := SinkFunc(func(_ context.Context, _ Event) error { return fmt.Errorf("boom") })
	reached := false
	after := SinkFunc(func(_ context.Context, _ Event) error { reached = true; return nil })
	sink := NewMultiSink(boom, after)
	err := sink.Emit(context.Background(), Event{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want the failing sink's error surfaced", err)
	}
	if !reached {
		t.Error("sink after the failing one was skipped")
	}
}

func TestMultiSinkEmptyIsNoop(t *testing.T) {
	if _, ok := NewMultiSink().(NoopSink); !ok {
		t.Error("empty MultiSink should collapse to NoopSink")
	}
}

func TestAsyncSinkDelivers(t *testing.T) {
	got := make(chan Event, 1)
	sink := NewAsyncSink(SinkFunc(func(_ context.Context, e Event) error {
		select {
		case got <- e:
		default:
		}
		return nil
	}), 8)
	defer sink.Close()

	if err := sink.Emit(context.Background(), Event{Name: "task.finished"}); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-got:
		if e.Name != "task.finished" {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered downstream")
	}
}
