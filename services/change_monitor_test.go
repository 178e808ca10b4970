package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-ordering/events"
	"github.com/yeremiapane/table-ordering/models"
)

type fakePublisher struct {
	mu   sync.Mutex
	fail bool
	got  []events.Envelope
}

func (f *fakePublisher) Publish(_ context.Context, env events.Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.got = append(f.got, env)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestRelayMarksProcessedOnlyAfterPublish(t *testing.T) {
	db := setupTestDB(t)
	claimedOrder(t, db)
	pub := &fakePublisher{fail: true}
	relay := NewEventRelay(db, pub)
	ctx := context.Background()

	n, err := relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var rows []models.OutboxEvent
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.False(t, rows[0].Processed)
	assert.Equal(t, 1, rows[0].Attempts)
	assert.Equal(t, "broker down", rows[0].LastError)
	assert.Equal(t, 0, rows[1].Attempts)

	pub.fail = false
	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, pub.got, 2)
	assert.Equal(t, events.TableClaimed, pub.got[0].EventType)
	assert.Equal(t, events.OrderCreated, pub.got[1].EventType)
	assert.Equal(t, "bistro", pub.got[1].RestaurantID)

	var payload events.OrderPayload
	require.NoError(t, json.Unmarshal(pub.got[1].Payload, &payload))
	assert.Equal(t, "S1", payload.SessionID)
	assert.Equal(t, 10.0, payload.Total)

	n, err = relay.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRelayLoopStops(t *testing.T) {
	db := setupTestDB(t)
	claimedOrder(t, db)
	pub := &fakePublisher{}
	relay := NewEventRelay(db, pub)
	relay.Interval = 10 * time.Millisecond

	relay.Start(context.Background())
	assert.Eventually(t, func() bool { return pub.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	relay.Stop()
	relay.Stop()
}
