// Package audit is the out-of-band side channel for resolution diagnostics.
// Every time the settings reader takes a fallback instead of returning a
// persisted configuration, a record lands here; the return values of the
// reader never carry failure information.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcomes of a resolution attempt.
const (
	OutcomeResolved        = "resolved"
	OutcomeFallbackBuiltIn = "fallback_builtin"
	OutcomeFallbackMock    = "fallback_mock"
)

// Operations audited by the reader.
const (
	OpReadDefaultProvider = "read_default_provider"
	OpReadAllProviders    = "read_all_providers"
)

// Record describes one resolution decision.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Source    string    `json:"source,omitempty"`
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
}

// NewRecord builds a record with a fresh id and timestamp.
func NewRecord(operation, source, outcome, reason string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Operation: operation,
		Source:    source,
		Outcome:   outcome,
		Reason:    reason,
	}
}

// Sink receives resolution records.
type Sink interface {
	Enqueue(rec *Record) error
}

// NoopSink discards records; used when auditing is disabled.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) Enqueue(rec *Record) error {
	return nil
}

// MemorySink collects records in memory; used in tests.
type MemorySink struct {
	mu      sync.Mutex
	records []*Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Enqueue(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a snapshot of everything enqueued so far.
func (s *MemorySink) Records() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}
