package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageKeyedByRestaurant(t *testing.T) {
	env := Envelope{
		EventID:      "e-1",
		EventType:    OrderCreated,
		EventVersion: 1,
		OccurredAt:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		RestaurantID: "bistro",
		AggregateID:  "42",
		Payload:      json.RawMessage(`{"order_id":42}`),
	}

	msg, err := Message(env)
	require.NoError(t, err)

	assert.Equal(t, "bistro", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "x-event-type", msg.Headers[0].Key)
	assert.Equal(t, OrderCreated, string(msg.Headers[0].Value))

	var decoded Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "e-1", decoded.EventID)
	assert.JSONEq(t, `{"order_id":42}`, string(decoded.Payload))
}
