package nats

import (
	"time"

	"github.com/google/uuid"

	"github.com/aiox-platform/intake/internal/leads"
)

// FetchTimeout bounds a single batch fetch from a consumer.
const FetchTimeout = 2 * time.Second

const (
	StreamMessages = "INTAKE_MESSAGES"
	StreamEvents   = "INTAKE_EVENTS"
)

const (
	SubjectInboundMessage = "intake.messages.inbound"
	SubjectLeadEvent      = "intake.events.lead"
)

// InboundMessage is a webhook message reduced to what a turn needs.
type InboundMessage struct {
	EndpointID string    `json:"endpoint_id"`
	SenderID   string    `json:"sender_id"`
	MessageID  string    `json:"message_id"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// LeadEvent carries the qualified lead view after every persisted turn.
type LeadEvent struct {
	ID        uuid.UUID    `json:"id"`
	Lead      leads.Record `json:"lead"`
	Timestamp time.Time    `json:"timestamp"`
}
