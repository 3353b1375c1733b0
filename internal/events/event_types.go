package events

import (
	"time"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCredentialsSaved   EventType = "credentials_saved"
	EventCredentialsCleared EventType = "credentials_cleared"
	EventTurnAppended       EventType = "conversation_turn_appended"
	EventConversationClear  EventType = "conversation_cleared"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CredentialsSavedPayload never carries the bearer token.
type CredentialsSavedPayload struct {
	BaseURL string `json:"base_url"`
}

// TurnAppendedPayload payload.
type TurnAppendedPayload struct {
	TurnID      string         `json:"turn_id"`
	Speaker     domain.Speaker `json:"speaker"`
	Source      string         `json:"source,omitempty"`
	TextPreview string         `json:"text_preview"`
}
