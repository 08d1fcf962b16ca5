package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/meditrack/pkg/messaging"
)

func setupBroker(t *testing.T) (*miniredis.Miniredis, messaging.Broker) {
	t.Helper()
	mr := miniredis.RunT(t)

	broker, err := NewRedisBroker(context.Background(), Config{
		URL:      "redis://" + mr.Addr() + "/0",
		PoolSize: 2,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = broker.Close() })

	return mr, broker
}

func TestPublish(t *testing.T) {
	mr, broker := setupBroker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	sub := client.Subscribe(ctx, "meditrack.requests")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	msg := messaging.Message{
		ID:         uuid.New(),
		Type:       "REQUEST_SUBMITTED",
		Payload:    json.RawMessage(`{"request_id":42}`),
		OccurredAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, broker.Publish(ctx, "meditrack.requests", msg))

	select {
	case got := <-sub.Channel():
		var decoded messaging.Message
		require.NoError(t, json.Unmarshal([]byte(got.Payload), &decoded))
		assert.Equal(t, msg.ID, decoded.ID)
		assert.Equal(t, "REQUEST_SUBMITTED", decoded.Type)
		assert.JSONEq(t, `{"request_id":42}`, string(decoded.Payload))
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestPingFailsWhenServerGone(t *testing.T) {
	mr, broker := setupBroker(t)
	require.NoError(t, broker.Ping(context.Background()))

	mr.Close()
	assert.Error(t, broker.Ping(context.Background()))
}

func TestNewRedisBrokerRejectsBadURL(t *testing.T) {
	_, err := NewRedisBroker(context.Background(), Config{URL: "not a url"}, zerolog.Nop())
	assert.Error(t, err)
}
