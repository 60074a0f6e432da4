// Package kafka provides the Kafka event sink for external observers.
//
// Writes are synchronous and fail-closed: the registry operation blocks
// until the broker acknowledges the record, and aborts if it does not.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"rollbook/internal/eventlog"
)

// DefaultTopic is the topic events are produced to unless overridden.
const DefaultTopic = "rollbook.member.events"

// Sink produces events to a Kafka topic, keyed by event kind so events of
// one kind land on one partition in order.
type Sink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// Option configures the Sink.
type Option func(*Sink)

// WithTopic overrides the destination topic.
func WithTopic(topic string) Option {
	return func(s *Sink) {
		s.topic = topic
	}
}

// WithLogger sets a logger for delivery errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// NewSink connects a producer to the given brokers.
func NewSink(brokers []string, opts ...Option) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka sink: %w", err)
	}
	s := &Sink{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSinkWithClient wraps an existing client; its lifecycle stays with the
// caller. Used by integration tests.
func NewSinkWithClient(client *kgo.Client, opts ...Option) *Sink {
	s := &Sink{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append produces the event and waits for broker acknowledgement.
func (s *Sink) Append(ctx context.Context, event eventlog.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka sink: marshal event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Kind),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "event delivery failed",
				"kind", event.Kind,
				"topic", s.topic,
				"error", err,
			)
		}
		return fmt.Errorf("kafka sink: produce %s: %w", event.Kind, err)
	}
	return nil
}

// Close flushes and releases the producer.
func (s *Sink) Close() {
	s.client.Close()
}
