package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WrapsPayload(t *testing.T) {
	env, err := New(EventCatalogChanged, "storefront-api", "req-1", "p-1",
		CatalogChangedPayload{Entity: EntityProduct, EntityID: "p-1", Action: ActionUpdated})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "p-1", env.CorrelationID)
	assert.False(t, env.OccurredAt.IsZero())

	var p CatalogChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, ActionUpdated, p.Action)

	h := Headers(env)
	require.Len(t, h, 2)
	assert.Equal(t, "x-event-type", h[0].Key)
	assert.Equal(t, EventCatalogChanged, string(h[0].Value))
}

type recordingPublisher struct {
	key     []byte
	value   []byte
	headers []kafka.Header
}

func (r *recordingPublisher) Publish(_ context.Context, key, value []byte, headers ...kafka.Header) error {
	r.key, r.value, r.headers = key, value, headers
	return nil
}

func TestEmit(t *testing.T) {
	env, err := New(EventOrderCreated, "storefront-api", "", "o-1", OrderCreatedPayload{OrderID: "o-1"})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	require.NoError(t, Emit(context.Background(), pub, "o-1", env))

	assert.Equal(t, "o-1", string(pub.key))
	assert.Len(t, pub.headers, 2)
	var got Envelope
	require.NoError(t, json.Unmarshal(pub.value, &got))
	assert.Equal(t, env.EventID, got.EventID)
	assert.Equal(t, EventOrderCreated, got.EventType)
}
