package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/aiox-platform/intake/internal/leads"
)

// Publisher provides typed methods for publishing to JetStream.
type Publisher struct {
	js jetstream.JetStream
}

func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishInbound queues an inbound message for the turn consumer. The WhatsApp
// message ID doubles as the JetStream dedupe ID.
func (p *Publisher) PublishInbound(ctx context.Context, msg InboundMessage) error {
	var opts []jetstream.PublishOpt
	if msg.MessageID != "" {
		opts = append(opts, jetstream.WithMsgID(msg.MessageID))
	}
	return p.publish(ctx, SubjectInboundMessage, msg, opts...)
}

// PublishLead emits the current lead view of a conversation.
func (p *Publisher) PublishLead(ctx context.Context, lead leads.Record) error {
	return p.publish(ctx, SubjectLeadEvent, LeadEvent{
		ID:        uuid.New(),
		Lead:      lead,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, data any, opts ...jetstream.PublishOpt) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	if _, err := p.js.Publish(ctx, subject, payload, opts...); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
