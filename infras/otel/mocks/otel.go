package mocks

import (
	"context"
	"sync"

	"todoapp/infras/otel"
)

// Recorder is an in-memory otel.Otel. It keeps every scope it opens so tests can assert on
// span names, attributes and traced errors without an exporter.
type Recorder struct {
	mu    sync.Mutex
	spans []*SpanRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewOtel returns a Recorder for tests that never look at the spans.
func NewOtel() otel.Otel {
	return NewRecorder()
}

func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	record := &SpanRecord{ScopeName: scopeName, Name: spanName, Attributes: map[string]any{}}

	r.mu.Lock()
	r.spans = append(r.spans, record)
	r.mu.Unlock()

	return ctx, &scope{mu: &r.mu, record: record}
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// Spans returns a copy of every span opened so far, oldest first.
func (r *Recorder) Spans() []SpanRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]SpanRecord, len(r.spans))
	for i, span := range r.spans {
		out[i] = span.clone()
	}

	return out
}

// Find returns the most recent span with the given name.
func (r *Recorder) Find(name string) (SpanRecord, bool) {
	spans := r.Spans()

	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].Name == name {
			return spans[i], true
		}
	}

	return SpanRecord{}, false
}
