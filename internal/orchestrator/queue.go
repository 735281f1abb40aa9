package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	inats "github.com/aiox-platform/intake/internal/nats"
)

const consumerName = "intake-turns"

// QueueSubmitter hands inbound messages to the JetStream work queue.
type QueueSubmitter struct {
	publisher *inats.Publisher
}

func NewQueueSubmitter(publisher *inats.Publisher) *QueueSubmitter {
	return &QueueSubmitter{publisher: publisher}
}

func (q *QueueSubmitter) Submit(ctx context.Context, in Inbound) error {
	return q.publisher.PublishInbound(ctx, inats.InboundMessage{
		EndpointID: in.EndpointID,
		SenderID:   in.SenderID,
		MessageID:  in.MessageID,
		Text:       in.Text,
		ReceivedAt: in.ReceivedAt,
	})
}

// Consume processes queued messages with a single durable consumer until ctx
// is cancelled. Messages are handled one at a time.
func (o *Orchestrator) Consume(ctx context.Context, consumers *inats.ConsumerManager) error {
	consumer, err := consumers.EnsureConsumer(ctx, inats.StreamMessages, consumerName, inats.SubjectInboundMessage, 2*time.Minute)
	if err != nil {
		return err
	}

	slog.Info("turn consumer started", "consumer", consumerName)

	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(inats.FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("fetching inbound messages", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			o.processMessage(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (o *Orchestrator) processMessage(ctx context.Context, msg jetstream.Msg) {
	var queued inats.InboundMessage
	if err := json.Unmarshal(msg.Data(), &queued); err != nil {
		slog.Error("unmarshaling inbound message", "error", err)
		// A malformed payload never becomes valid.
		_ = msg.Term()
		return
	}

	out := o.HandleTurn(context.WithoutCancel(ctx), Inbound{
		EndpointID: queued.EndpointID,
		SenderID:   queued.SenderID,
		MessageID:  queued.MessageID,
		Text:       queued.Text,
		ReceivedAt: queued.ReceivedAt,
	})

	if out.State == StateAborted && !errors.Is(out.Err, ErrNoCredentials) {
		_ = msg.NakWithDelay(5 * time.Second)
		return
	}
	_ = msg.Ack()
}
