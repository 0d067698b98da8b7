package logging

import (
	"context"
	"log/slog"
	"sync"

	"BiasFeed/internal/ports"
)

// SlogSink writes every event as a debug log line.
type SlogSink struct {
	logger *slog.Logger
}

var _ ports.EventSink = (*SlogSink)(nil)

// NewSlogSink wraps a logger; a nil logger produces a silent sink.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Record logs the event name with its attributes.
func (s *SlogSink) Record(ctx context.Context, event string, attrs ...slog.Attr) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, event, attrs...)
}

// NopSink drops events.
type NopSink struct{}

var _ ports.EventSink = NopSink{}

// Record does nothing.
func (NopSink) Record(context.Context, string, ...slog.Attr) {}

// Event is one recorded event.
type Event struct {
	Name  string
	Attrs map[string]any
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ ports.EventSink = (*Recorder)(nil)

// Record stores the event.
func (r *Recorder) Record(_ context.Context, event string, attrs ...slog.Attr) {
	fields := make(map[string]any, len(attrs))
	for _, a := range attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.mu.Lock()
	r.events = append(r.events, Event{Name: event, Attrs: fields})
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names lists recorded event names in order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	return names
}

// OrNop returns sink, or a NopSink when sink is nil.
func OrNop(sink ports.EventSink) ports.EventSink {
	if sink == nil {
		return NopSink{}
	}
	return sink
}
