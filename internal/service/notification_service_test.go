package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
)

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) RecordEvent(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[eventType]++
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, events.Event) error {
	p.calls++
	return errors.New("broker down")
}

func TestNotificationServicePublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, "vetting.events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	recorder := &countingRecorder{}
	NewNotificationService(dispatcher, events.NewRedisPublisher(client, "vetting.events"), recorder, zap.NewNop()).RegisterHandlers()

	repos := repository.NewMemoryStore().Repositories()
	vetting := NewVettingService(VettingDependencies{Repos: repos, Dispatcher: dispatcher})
	app, _, err := vetting.Submit(ctx, principalActor("p-1"), SubmitApplicationInput{
		ApplicantEmail: "new@provider.test",
		UserType:       domain.ApplicantServiceProvider,
		VettingTier:    domain.TierBasic,
	})
	require.NoError(t, err)

	msgCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(msgCtx)
	require.NoError(t, err)

	var decoded struct {
		Type          string `json:"type"`
		ApplicationID string `json:"application_id"`
		Actor         struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"actor"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
	assert.Equal(t, string(events.EventApplicationSubmitted), decoded.Type)
	assert.Equal(t, app.ID, decoded.ApplicationID)
	assert.Equal(t, "p-1", decoded.Actor.ID)
	assert.Equal(t, 1, recorder.counts[string(events.EventApplicationSubmitted)])
}

func TestNotificationServiceSurvivesPublisherFailure(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	publisher := &failingPublisher{}
	NewNotificationService(dispatcher, publisher, nil, nil).RegisterHandlers()

	repos := repository.NewMemoryStore().Repositories()
	vetting := NewVettingService(VettingDependencies{Repos: repos, Dispatcher: dispatcher})
	_, _, err := vetting.Submit(context.Background(), principalActor("p-1"), SubmitApplicationInput{
		ApplicantEmail: "new@provider.test",
		UserType:       domain.ApplicantClient,
		VettingTier:    domain.TierBasic,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, publisher.calls)
}
