package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/pal-assistant/internal/assistant"
	"github.com/spec-kit/pal-assistant/internal/domain"
	"github.com/spec-kit/pal-assistant/internal/events"
	"github.com/spec-kit/pal-assistant/internal/observability"
	"github.com/spec-kit/pal-assistant/internal/repository"
)

const previewLength = 80

// Responder produces one assistant answer per input.
type Responder interface {
	GetAIResponse(ctx context.Context, text string) assistant.Response
}

// ConversationService keeps the per-session turn log and routes user input
// through the assistant.
type ConversationService struct {
	turns      repository.TurnRepository
	responder  Responder
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ConversationDependencies bundles collaborators for the conversation service.
type ConversationDependencies struct {
	TurnRepo   repository.TurnRepository
	Responder  Responder
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	s := &ConversationService{
		turns:      deps.TurnRepo,
		responder:  deps.Responder,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Ask stores the user's turn together with the assistant reply. Both turns
// are written in one step so a failed write never leaves an unanswered turn.
func (s *ConversationService) Ask(ctx context.Context, sessionID, text string) (domain.Turn, domain.Turn, error) {
	userTurn := domain.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      text,
		Speaker:   domain.SpeakerUser,
		Timestamp: s.now().UTC(),
	}

	resp := s.responder.GetAIResponse(ctx, text)
	switch resp.Source {
	case assistant.SourceCanned, assistant.SourceCompletion:
	default:
		s.metrics.RecordFallback(string(resp.Source))
	}

	assistantTurn := domain.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      resp.Text,
		Speaker:   domain.SpeakerAssistant,
		Timestamp: s.now().UTC(),
		FollowUps: resp.FollowUp,
	}
	if err := s.turns.AppendAll(ctx, &userTurn, &assistantTurn); err != nil {
		return domain.Turn{}, domain.Turn{}, err
	}
	s.publishAppended(ctx, userTurn, "")
	s.publishAppended(ctx, assistantTurn, string(resp.Source))

	s.logger.Debug("assistant answered",
		zap.String("session_id", sessionID),
		zap.String("source", string(resp.Source)))
	return userTurn, assistantTurn, nil
}

// History returns the session log in insertion order.
func (s *ConversationService) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	return s.turns.ListBySession(ctx, sessionID)
}

// Clear wipes the session log.
func (s *ConversationService) Clear(ctx context.Context, sessionID string) error {
	if err := s.turns.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Type: events.EventConversationClear, SessionID: sessionID})
	return nil
}

func (s *ConversationService) publishAppended(ctx context.Context, turn domain.Turn, source string) {
	s.publish(ctx, events.Event{
		Type:      events.EventTurnAppended,
		SessionID: turn.SessionID,
		Payload: events.TurnAppendedPayload{
			TurnID:      turn.ID,
			Speaker:     turn.Speaker,
			Source:      source,
			TextPreview: preview(turn.Text),
		},
	})
}

func (s *ConversationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
