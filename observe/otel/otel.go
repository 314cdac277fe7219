// Package otel bridges the observe.Sink to OpenTelemetry tracing.
//
// It converts backend events into OTel spans so game submissions and engine
// runs show up in any OpenTelemetry-compatible backend.
package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/a2639443196/liars-bar-llm/observe"
)

const instrumentationName = "github.com/a2639443196/liars-bar-llm"

// Sink implements observe.Sink by emitting OpenTelemetry spans.
type Sink struct {
	tracer trace.Tracer
}

// NewSink creates an OTel sink using the given TracerProvider. A nil provider
// falls back to a noop tracer.
func NewSink(tp trace.TracerProvider) *Sink {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Sink{
		tracer: tp.Tracer(instrumentationName),
	}
}

// Emit converts one observe.Event into a completed OTel span.
func (s *Sink) Emit(_ context.Context, event observe.Event) error {
	event.Normalize()

	_, span := s.tracer.Start(context.Background(), spanNameFor(event), trace.WithTimestamp(event.Timestamp))

	attrs := []attribute.KeyValue{
		attribute.String("liarsbar.event.kind", string(event.Kind)),
	}
	if event.TaskID != "" {
		attrs = append(attrs, attribute.String("liarsbar.task.id", event.TaskID))
	}
	if event.GameID != "" {
		attrs = append(attrs, attribute.String("liarsbar.game.id", event.GameID))
	}
	if event.Name != "" {
		attrs = append(attrs, attribute.String("liarsbar.event.name", event.Name))
	}
	for k, v := range event.Attributes {
		attrs = append(attrs, attribute.String("liarsbar.attr."+k, fmt.Sprint(v)))
	}
	span.SetAttributes(attrs...)

	switch event.Status {
	case observe.StatusFailed:
		span.SetStatus(codes.Error, event.Error)
	case observe.StatusCompleted:
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(event.Timestamp.Add(time.Millisecond)))
	return nil
}

func spanNameFor(event observe.Event) string {
	if event.Name != "" {
		return event.Name
	}
	return string(event.Kind)
}

var _ observe.Sink = (*Sink)(nil)
