package orchestrator

import "github.com/aiox-platform/intake/internal/leads"

// State is a step of the turn pipeline. A turn ends in exactly one terminal
// state.
type State string

const (
	StateReceived       State = "RECEIVED"
	StateDedupeChecked  State = "DEDUPE_CHECKED"
	StateFactsUpdated   State = "FACTS_UPDATED"
	StateContextBuilt   State = "CONTEXT_BUILT"
	StateReplyGenerated State = "REPLY_GENERATED"
	StatePersisted      State = "PERSISTED"
	StateDelivered      State = "DELIVERED"

	StateDedupeSkipped    State = "DEDUPE_SKIPPED"
	StateIncompleteInput  State = "INCOMPLETE_INPUT"
	StateGenerationFailed State = "GENERATION_FAILED"
	StateDeliveryFailed   State = "DELIVERY_FAILED"
	// StateAborted means a mandatory dependency was missing or the store
	// failed before anything was persisted.
	StateAborted State = "ABORTED"
)

// Terminal reports whether no further step follows s.
func (s State) Terminal() bool {
	switch s {
	case StateDelivered, StateDedupeSkipped, StateIncompleteInput,
		StateGenerationFailed, StateDeliveryFailed, StateAborted:
		return true
	}
	return false
}

// Outcome describes how a turn ended.
type Outcome struct {
	State          State
	ConversationID string
	Reply          string
	Category       leads.Category
	Err            error
}
