package dto

import (
	"time"

	"github.com/spec-kit/pal-assistant/internal/domain"
)

// MessageRequest carries free-text user input.
type MessageRequest struct {
	Text string `json:"text"`
}

// TurnResponse is one session log entry.
type TurnResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
	FollowUp  []string  `json:"followUp,omitempty"`
}

// ExchangeResponse pairs the stored user turn with its reply.
type ExchangeResponse struct {
	User      TurnResponse `json:"user"`
	Assistant TurnResponse `json:"assistant"`
}

// SessionResponse is returned by POST /sessions.
type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GrammarResponse holds the rewritten text.
type GrammarResponse struct {
	Text string `json:"text"`
}

// NewTurnResponse maps a domain turn.
func NewTurnResponse(turn domain.Turn) TurnResponse {
	return TurnResponse{
		ID:        turn.ID,
		Text:      turn.Text,
		IsUser:    turn.IsUser(),
		Timestamp: turn.Timestamp,
		FollowUp:  turn.FollowUps,
	}
}

// NewTurnResponses maps a session log.
func NewTurnResponses(turns []domain.Turn) []TurnResponse {
	out := make([]TurnResponse, 0, len(turns))
	for _, turn := range turns {
		out = append(out, NewTurnResponse(turn))
	}
	return out
}
