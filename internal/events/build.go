package events

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"time"
)

// New wraps payload in a version 1 envelope.
func New(eventType, producer, traceID, correlationID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

// Headers are the routing headers every published envelope carries.
func Headers(env Envelope) []kafka.Header {
	return []kafka.Header{
		{Key: "x-event-type", Value: []byte(env.EventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}

// Publisher is the producer side; *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

// Emit marshals env and hands it to pub keyed by key.
func Emit(ctx context.Context, pub Publisher, key string, env Envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return pub.Publish(ctx, PartitionKey(key), b, Headers(env)...)
}
