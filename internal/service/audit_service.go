package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/intent-score/internal/events"
)

// AuditService writes an audit trail of lead store events to the log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLeadAdded, a.handleLeadAdded)
	a.dispatcher.Subscribe(events.EventLeadRemoved, a.handleLeadRemoved)
	a.dispatcher.Subscribe(events.EventLeadsCleared, a.handleLeadsCleared)
}

func (a *AuditService) handleLeadAdded(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("event_id", event.ID), zap.String("lead_id", event.LeadID)}
	if payload, ok := event.Payload.(events.LeadAddedPayload); ok {
		fields = append(fields,
			zap.Int("initial_score", payload.InitialScore),
			zap.Int("reranked_score", payload.RerankedScore),
			zap.String("source", string(payload.Source)),
		)
		if payload.FallbackReason != "" {
			fields = append(fields, zap.String("fallback_reason", payload.FallbackReason))
		}
	}
	a.logger.Info("LeadAdded", fields...)
	return nil
}

func (a *AuditService) handleLeadRemoved(_ context.Context, event events.Event) error {
	a.logger.Info("LeadRemoved", zap.String("event_id", event.ID), zap.String("lead_id", event.LeadID))
	return nil
}

func (a *AuditService) handleLeadsCleared(_ context.Context, event events.Event) error {
	a.logger.Info("LeadsCleared", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}
