package domain

import "time"

// Speaker differentiates the two sides of a conversation.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one appended entry of an assistant session log.
type Turn struct {
	ID        string
	SessionID string
	Seq       int64
	Text      string
	Speaker   Speaker
	Timestamp time.Time
	// FollowUps is only populated on assistant turns.
	FollowUps []string
}

// IsUser reports whether the user authored the turn.
func (t Turn) IsUser() bool {
	return t.Speaker == SpeakerUser
}
