package orchestrator

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
)

// Inbound is a transport message reduced to what a turn needs.
type Inbound struct {
	EndpointID string    `json:"endpoint_id" validate:"required"`
	SenderID   string    `json:"sender_id" validate:"required"`
	MessageID  string    `json:"message_id"`
	Text       string    `json:"text" validate:"required"`
	ReceivedAt time.Time `json:"received_at"`
}

// Submitter accepts inbound messages for processing. Implementations return
// quickly; the turn itself runs elsewhere.
type Submitter interface {
	Submit(ctx context.Context, in Inbound) error
}

var validate = validator.New()

func (in Inbound) Validate() error {
	return validate.Struct(in)
}
