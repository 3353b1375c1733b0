package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/pal-assistant/internal/events"
)

// AuditService logs domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventCredentialsSaved, a.handleCredentialsSaved)
	a.dispatcher.Subscribe(events.EventCredentialsCleared, a.handleCredentialsCleared)
	a.dispatcher.Subscribe(events.EventTurnAppended, a.handleTurnAppended)
	a.dispatcher.Subscribe(events.EventConversationClear, a.handleConversationCleared)
}

func (a *AuditService) handleCredentialsSaved(_ context.Context, event events.Event) error {
	a.logger.Info("CredentialsSaved", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleCredentialsCleared(_ context.Context, event events.Event) error {
	a.logger.Info("CredentialsCleared", zap.String("event_id", event.ID))
	return nil
}

func (a *AuditService) handleTurnAppended(_ context.Context, event events.Event) error {
	a.logger.Debug("TurnAppended", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleConversationCleared(_ context.Context, event events.Event) error {
	a.logger.Info("ConversationCleared", zap.String("session_id", event.SessionID))
	return nil
}
