package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/aiox-platform/intake/internal/conversation"
)

// ErrEmptyReply means the model answered with no usable text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Request is the ordered generation context for one turn.
type Request struct {
	Instructions string
	History      []conversation.Turn
	Message      string
}

// Service is the generation capability: system instructions, prior turns
// oldest first, then the new user message.
type Service struct {
	model   model.BaseChatModel
	breaker *CircuitBreaker
	timeout time.Duration
}

func NewService(chatModel model.BaseChatModel, breaker *CircuitBreaker, timeout time.Duration) *Service {
	return &Service{model: chatModel, breaker: breaker, timeout: timeout}
}

// Generate returns one reply or an error. A timeout is reported as
// context.DeadlineExceeded.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	call := func(ctx context.Context) (string, error) {
		resp, err := s.model.Generate(ctx, Messages(req))
		if err != nil {
			return "", fmt.Errorf("generating reply: %w", err)
		}
		text := strings.TrimSpace(resp.Content)
		if text == "" {
			return "", ErrEmptyReply
		}
		return text, nil
	}

	start := time.Now()
	var (
		reply string
		err   error
	)
	if s.breaker != nil {
		reply, err = s.breaker.Execute(ctx, call)
	} else {
		reply, err = call(ctx)
	}
	if err != nil {
		return "", err
	}

	slog.Debug("reply generated", "duration", time.Since(start), "length", len(reply))
	return reply, nil
}

// Messages renders a request into chat messages.
func Messages(req Request) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	msgs = append(msgs, schema.SystemMessage(req.Instructions))
	for _, turn := range req.History {
		switch turn.Role {
		case conversation.RoleUser:
			msgs = append(msgs, schema.UserMessage(turn.Text))
		case conversation.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(turn.Text, nil))
		}
	}
	msgs = append(msgs, schema.UserMessage(req.Message))
	return msgs
}
