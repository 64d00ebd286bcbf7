package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventTaskUpdated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventTaskUpdated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventApplicationUpdated, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "e1", Type: EventTaskUpdated})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestRedisPublisherPublishesJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, "vetting.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewRedisPublisher(client, "vetting.events")
	event := Event{
		ID:            "e1",
		Type:          EventApplicationSubmitted,
		ApplicationID: "app-1",
		Actor:         Actor{Type: domain.SubjectTypePrincipal, ID: "p-1"},
		Timestamp:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Payload:       ApplicationSubmittedPayload{Tier: domain.TierEnhanced, TaskCount: 2},
	}
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-sub.Channel():
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
		assert.Equal(t, "application_submitted", decoded["type"])
		assert.Equal(t, "app-1", decoded["application_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
