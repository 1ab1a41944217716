package mocks

import (
	"context"
	"eventhub/infras/otel"
	"sync"
)

// Recorder is an otel.Otel that keeps the last scope opened under each span
// name.
type Recorder struct {
	mu     sync.Mutex
	scopes map[string]*Scope
}

func (r *Recorder) NewScope(ctx context.Context, _, name string) (context.Context, otel.Scope) {
	scope := &Scope{}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.scopes == nil {
		r.scopes = map[string]*Scope{}
	}

	r.scopes[name] = scope

	return ctx, scope
}

// Scope returns the last scope opened as name, or nil.
func (r *Recorder) Scope(name string) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scopes[name]
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewOtel returns a tracer for tests that do not inspect spans.
func NewOtel() otel.Otel {
	return NewRecorder()
}
