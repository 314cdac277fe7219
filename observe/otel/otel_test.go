package otel

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/a2639443196/liars-bar-llm/observe"
)

func TestSinkEmitsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	sink := NewSink(tp)
	err := sink.Emit(context.Background(), observe.Event{
		Kind:      observe.KindTask,
		TaskID:    "task-123",
		GameID:    "g1",
		Name:      "task.finished",
		Status:    observe.StatusCompleted,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "task.finished" {
		t.Errorf("span name = %q", span.Name)
	}
	attrs := attrToMap(span.Attributes)
	if attrs["liarsbar.task.id"] != "task-123" {
		t.Errorf("task id attribute = %q", attrs["liarsbar.task.id"])
	}
	if attrs["liarsbar.game.id"] != "g1" {
		t.Errorf("game id attribute = %q", attrs["liarsbar.game.id"])
	}
	if span.Status.Code != codes.Ok {
		t.Errorf("status = %v", span.Status)
	}
}

func TestSinkErrorStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	sink := NewSink(tp)
	_ = sink.Emit(context.Background(), observe.Event{
		Kind:      observe.KindTask,
		Status:    observe.StatusFailed,
		Error:     "engine: model quota exhausted",
		Timestamp: time.Now(),
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status = %v", spans[0].Status)
	}
	if spans[0].Status.Description != "engine: model quota exhausted" {
		t.Errorf("description = %q", spans[0].Status.Description)
	}
}

func TestNilTracerProvider(t *testing.T) {
	sink := NewSink(nil)
	if err := sink.Emit(context.Background(), observe.Event{Kind: observe.KindTask}); err != nil {
		t.Errorf("expected no error with nil provider, got: %v", err)
	}
}

func attrToMap(attrs []attribute.KeyValue) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value.Emit()
	}
	return m
}
