package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher captures structured audit events. Implementations are supplied by
// the embedding platform; this core ships a slog sink and an in-memory
// recorder for tests.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// SlogPublisher writes audit events to a structured logger. The orchestrator
// replaces this with a persistent sink in production.
type SlogPublisher struct {
	logger *slog.Logger
}

func NewSlogPublisher(logger *slog.Logger) *SlogPublisher {
	return &SlogPublisher{logger: logger}
}

func (p *SlogPublisher) Emit(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, event.Action,
		"log_type", "audit",
		"session_id", event.SessionID.String(),
		"subject", event.Subject,
		"actor", event.Actor,
		"decision", event.Decision,
		"reason", event.Reason,
		"request_id", event.RequestID,
	)
	return nil
}

// Recorder buffers events in memory for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
