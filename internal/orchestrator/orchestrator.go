package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aiox-platform/intake/internal/clients"
	"github.com/aiox-platform/intake/internal/conversation"
	"github.com/aiox-platform/intake/internal/facts"
	"github.com/aiox-platform/intake/internal/leads"
	"github.com/aiox-platform/intake/internal/llm"
	"github.com/aiox-platform/intake/internal/metrics"
	"github.com/aiox-platform/intake/internal/prompt"
)

// ErrNoCredentials aborts a turn when neither the tenant nor the default
// profile can deliver a reply.
var ErrNoCredentials = clients.ErrNoCredentials

type Ledger interface {
	AlreadyHandled(ctx context.Context, id string) bool
	Forget(ctx context.Context, id string) error
}

type Conversations interface {
	Get(ctx context.Context, endpointID, senderID string) (*conversation.Record, error)
	Push(rec *conversation.Record, role conversation.Role, text string)
	Save(ctx context.Context, rec *conversation.Record) error
}

type Profiles interface {
	Resolve(ctx context.Context, endpointID string) (clients.Profile, error)
}

type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, profile clients.Profile, to, text string) error
}

type LeadPublisher interface {
	PublishLead(ctx context.Context, lead leads.Record) error
}

type Options struct {
	// Trailing history turns passed to generation.
	ContextTurns    int
	DeliveryTimeout time.Duration
}

// Orchestrator runs one conversation turn at a time per conversation id.
type Orchestrator struct {
	ledger        Ledger
	conversations Conversations
	profiles      Profiles
	generator     Generator
	deliverer     Deliverer
	leads         LeadPublisher
	opts          Options

	locks    *keyedMutex
	inflight sync.WaitGroup
}

func New(ledger Ledger, conversations Conversations, profiles Profiles, generator Generator, deliverer Deliverer, opts Options) *Orchestrator {
	if opts.ContextTurns <= 0 {
		opts.ContextTurns = 10
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = 10 * time.Second
	}
	return &Orchestrator{
		ledger:        ledger,
		conversations: conversations,
		profiles:      profiles,
		generator:     generator,
		deliverer:     deliverer,
		opts:          opts,
		locks:         newKeyedMutex(),
	}
}

// WithLeadPublisher enables best-effort lead events after persisted turns.
func (o *Orchestrator) WithLeadPublisher(p LeadPublisher) *Orchestrator {
	o.leads = p
	return o
}

// HandleTurn runs the whole pipeline for one inbound message and returns the
// terminal outcome. It never panics on bad input; every failure maps to a
// terminal state.
func (o *Orchestrator) HandleTurn(ctx context.Context, in Inbound) Outcome {
	out := o.handle(ctx, in)
	metrics.TurnsTotal.WithLabelValues(string(out.State)).Inc()
	return out
}

func (o *Orchestrator) handle(ctx context.Context, in Inbound) Outcome {
	log := slog.With("endpoint_id", in.EndpointID, "sender_id", in.SenderID, "message_id", in.MessageID)

	if err := in.Validate(); err != nil {
		log.Debug("ignoring incomplete message", "error", err)
		return Outcome{State: StateIncompleteInput}
	}

	convID := conversation.Key(in.EndpointID, in.SenderID)
	log = log.With("conversation_id", convID)

	if o.ledger.AlreadyHandled(ctx, in.MessageID) {
		log.Info("duplicate delivery skipped")
		return Outcome{State: StateDedupeSkipped, ConversationID: convID}
	}

	unlock := o.locks.Lock(convID)
	defer unlock()

	abort := func(err error) Outcome {
		// Nothing was persisted: let a redelivery through.
		if ferr := o.ledger.Forget(ctx, in.MessageID); ferr != nil {
			log.Warn("releasing message id", "error", ferr)
		}
		log.Error("turn aborted", "error", err)
		return Outcome{State: StateAborted, ConversationID: convID, Err: err}
	}

	profile, err := o.profiles.Resolve(ctx, in.EndpointID)
	if err != nil {
		return abort(fmt.Errorf("resolving profile: %w", err))
	}

	rec, err := o.conversations.Get(ctx, in.EndpointID, in.SenderID)
	if err != nil {
		return abort(fmt.Errorf("loading conversation: %w", err))
	}

	filled := facts.Extract(in.Text, &rec.Facts)
	log.Debug("facts updated", "state", StateFactsUpdated, "filled", filled,
		"greeting", facts.IsGreeting(in.Text), "greeted", rec.Greeted)

	req := llm.Request{
		Instructions: prompt.Compose(profile.Instructions, rec),
		History:      rec.Recent(o.opts.ContextTurns),
		Message:      in.Text,
	}

	start := time.Now()
	reply, err := o.generator.Generate(ctx, req)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		var ok bool
		if reply, ok = prompt.Sanitize(reply); !ok {
			err = errors.New("reply only contained internal context")
		}
	}

	o.conversations.Push(rec, conversation.RoleUser, in.Text)
	if err != nil {
		// Strict policy: nothing is sent, the user turn and facts are kept.
		rec.Summary = conversation.Summarize(rec)
		if serr := o.conversations.Save(ctx, rec); serr != nil {
			log.Error("persisting after generation failure", "error", serr)
		}
		log.Warn("generation failed", "state", StateGenerationFailed, "error", err)
		o.publishLead(ctx, rec)
		return Outcome{State: StateGenerationFailed, ConversationID: convID, Category: leads.Classify(rec.Facts), Err: err}
	}

	o.conversations.Push(rec, conversation.RoleAssistant, reply)
	rec.Greeted = true
	rec.Summary = conversation.Summarize(rec)
	if err := o.conversations.Save(ctx, rec); err != nil {
		return abort(fmt.Errorf("persisting turn: %w", err))
	}
	category := leads.Classify(rec.Facts)
	metrics.LeadsTotal.WithLabelValues(string(category)).Inc()
	o.publishLead(ctx, rec)

	dctx, cancel := context.WithTimeout(ctx, o.opts.DeliveryTimeout)
	defer cancel()
	if err := o.deliverer.Deliver(dctx, profile, in.SenderID, reply); err != nil {
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		log.Error("delivering reply", "state", StateDeliveryFailed, "recipient", in.SenderID, "error", err)
		return Outcome{State: StateDeliveryFailed, ConversationID: convID, Reply: reply, Category: category, Err: err}
	}
	metrics.DeliveriesTotal.WithLabelValues("delivered").Inc()

	log.Info("turn delivered", "category", category, "turns", len(rec.History))
	return Outcome{State: StateDelivered, ConversationID: convID, Reply: reply, Category: category}
}

func (o *Orchestrator) publishLead(ctx context.Context, rec *conversation.Record) {
	if o.leads == nil {
		return
	}
	if err := o.leads.PublishLead(ctx, leads.FromConversation(rec)); err != nil {
		slog.Warn("publishing lead event", "conversation_id", rec.ID, "error", err)
	}
}

// Submit runs the turn in the background so the webhook can acknowledge
// immediately. Wait blocks until submitted turns finish.
func (o *Orchestrator) Submit(ctx context.Context, in Inbound) error {
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		o.HandleTurn(context.WithoutCancel(ctx), in)
	}()
	return nil
}

// Wait blocks until every turn started by Submit has finished or ctx ends.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
