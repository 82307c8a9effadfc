package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/library-catalog/internal/events"
)

// AuditService writes an audit trail of auth and catalog events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit sink to all event types.
func (s *AuditService) RegisterHandlers() {
	types := []events.EventType{
		events.EventUserRegistered,
		events.EventUserLoggedIn,
		events.EventUserLoggedOut,
		events.EventAccessDenied,
		events.EventBookCreated,
		events.EventBookUpdated,
		events.EventBookDeleted,
		events.EventReviewCreated,
		events.EventReviewUpdated,
		events.EventReviewDeleted,
	}
	for _, eventType := range types {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *AuditService) record(_ context.Context, event events.Event) error {
	s.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor_id", event.ActorID),
		zap.String("subject", event.Subject),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
