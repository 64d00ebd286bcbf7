package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aurelia-concierge/vetting-service/internal/events"
)

// EventRecorder counts dispatched events.
type EventRecorder interface {
	RecordEvent(eventType string)
}

// NotificationService fans vetting events out to the log, metrics and an external publisher.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  events.Publisher
	metrics    EventRecorder
	logger     *zap.Logger
}

// NewNotificationService creates the service. publisher and metrics may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher events.Publisher, metrics EventRecorder, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes() {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
	n.dispatcher.Subscribe(events.EventApplicationTasksCompleted, n.handleTasksCompleted)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("vetting event",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
		zap.String("application_id", event.ApplicationID),
		zap.String("actor_type", string(event.Actor.Type)),
		zap.String("actor_id", event.Actor.ID),
		zap.Any("payload", event.Payload))
	if n.metrics != nil {
		n.metrics.RecordEvent(string(event.Type))
	}
	if n.publisher == nil {
		return nil
	}
	return n.publisher.Publish(ctx, event)
}

func (n *NotificationService) handleTasksCompleted(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TasksCompletedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("all verification tasks finished; application awaits officer decision",
		zap.String("application_id", event.ApplicationID),
		zap.Int("tasks", payload.TaskCount),
		zap.Int("passed", payload.Passed),
		zap.Int("failed", payload.Failed),
		zap.String("status", string(payload.Status)))
	return nil
}
