package leads

import (
	"time"

	"github.com/aiox-platform/intake/internal/conversation"
	"github.com/aiox-platform/intake/internal/facts"
)

// Record is the qualified lead view of a conversation, built on demand.
type Record struct {
	ConversationID string      `json:"conversation_id"`
	EndpointID     string      `json:"endpoint_id"`
	SenderID       string      `json:"sender_id"`
	Category       Category    `json:"category"`
	Facts          facts.Facts `json:"facts"`
	Summary        string      `json:"summary"`
	Turns          int         `json:"turns"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// FromConversation classifies rec and returns its lead view.
func FromConversation(rec *conversation.Record) Record {
	return Record{
		ConversationID: rec.ID,
		EndpointID:     rec.EndpointID,
		SenderID:       rec.SenderID,
		Category:       Classify(rec.Facts),
		Facts:          rec.Facts,
		Summary:        rec.Summary,
		Turns:          len(rec.History),
		UpdatedAt:      rec.UpdatedAt,
	}
}
