// Package eventlog is the append-only notification log. Every successful
// mutating registry operation appends exactly one structured event as its
// final step; failed operations append nothing.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind names the notification type of an event.
type Kind string

const (
	KindMemberRegistered    Kind = "member.registered"
	KindMemberUpdated       Kind = "member.updated"
	KindMemberDataRetrieved Kind = "member.data_retrieved"
	KindKycSubmitted        Kind = "member.kyc_submitted"
	KindKycStatusUpdated    Kind = "member.kyc_status_updated"
)

// Event is one log entry. Height is the chain height of the state transition
// that produced it; Payload is the kind-specific notification body.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Kind       Kind            `json:"kind"`
	Height     uint64          `json:"height"`
	Payload    json.RawMessage `json:"payload"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// New builds an event with a marshaled payload.
func New(kind Kind, height uint64, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		Height:     height,
		Payload:    raw,
		RecordedAt: time.Now(),
	}, nil
}

// Decode unmarshals the payload into out.
func (e Event) Decode(out any) error {
	return json.Unmarshal(e.Payload, out)
}

// Sink receives appended events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Log fans one append out to every configured sink with fail-closed
// semantics: if any sink rejects the event, the calling operation must fail.
type Log struct {
	sinks []Sink
}

// NewLog builds a fan-out log over the given sinks.
func NewLog(sinks ...Sink) *Log {
	return &Log{sinks: sinks}
}

// Append delivers the event to every sink, stopping at the first failure.
func (l *Log) Append(ctx context.Context, event Event) error {
	for _, sink := range l.sinks {
		if err := sink.Append(ctx, event); err != nil {
			return fmt.Errorf("event log append %s: %w", event.Kind, err)
		}
	}
	return nil
}
