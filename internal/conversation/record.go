package conversation

import (
	"time"

	"github.com/aiox-platform/intake/internal/facts"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation history.
type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Record is the per-sender state kept across turns.
type Record struct {
	ID         string      `json:"id"`
	EndpointID string      `json:"endpoint_id"`
	SenderID   string      `json:"sender_id"`
	History    []Turn      `json:"history"`
	Facts      facts.Facts `json:"facts"`
	Greeted    bool        `json:"greeted"`
	Summary    string      `json:"summary"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Key builds the conversation id from the channel endpoint and the sender.
func Key(endpointID, senderID string) string {
	return endpointID + "_" + senderID
}

// Recent returns at most n trailing turns, oldest first.
func (r *Record) Recent(n int) []Turn {
	if n <= 0 || len(r.History) <= n {
		return r.History
	}
	return r.History[len(r.History)-n:]
}

// LastUserText returns the most recent user message, if any.
func (r *Record) LastUserText() string {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].Role == RoleUser {
			return r.History[i].Text
		}
	}
	return ""
}
