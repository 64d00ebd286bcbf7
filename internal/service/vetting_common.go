package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// mapRepoError turns repository sentinels into domain errors for resource.
func mapRepoError(err error, resource string, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict(resource+" was modified by another request", map[string]any{"id": id})
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", map[string]any{"id": id})
	default:
		return err
	}
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = dispatcher.Publish(ctx, event)
}

func principalActor(principalID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypePrincipal, ID: principalID}
}

func officerActor(officerID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeOfficer, ID: officerID}
}

func strPtr(s string) *string { return &s }

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameStringPtr(a, b *string) bool {
	return strValue(a) == strValue(b)
}

// normalizeID treats empty strings as unset.
func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}
