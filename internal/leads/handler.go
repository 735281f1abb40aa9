package leads

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aiox-platform/intake/internal/api"
	"github.com/aiox-platform/intake/internal/conversation"
)

// Conversations loads a live conversation without creating one and erases
// one on request.
type Conversations interface {
	Find(ctx context.Context, endpointID, senderID string) (*conversation.Record, error)
	Reset(ctx context.Context, endpointID, senderID string) error
}

type Handler struct {
	conversations Conversations
}

func NewHandler(conversations Conversations) *Handler {
	return &Handler{conversations: conversations}
}

// Get returns the lead record of one conversation with a freshly computed
// category.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	endpointID := chi.URLParam(r, "endpointID")
	senderID := chi.URLParam(r, "senderID")
	if endpointID == "" || senderID == "" {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	rec, err := h.conversations.Find(r.Context(), endpointID, senderID)
	if errors.Is(err, conversation.ErrNotFound) {
		api.HandleError(w, api.NewNotFoundError("conversation not found"))
		return
	}
	if err != nil {
		slog.Error("loading lead", "endpoint_id", endpointID, "sender_id", senderID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, FromConversation(rec))
}

// Delete erases a conversation and its facts. The next message from the
// sender starts a fresh conversation.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	endpointID := chi.URLParam(r, "endpointID")
	senderID := chi.URLParam(r, "senderID")
	if endpointID == "" || senderID == "" {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.conversations.Reset(r.Context(), endpointID, senderID); err != nil {
		slog.Error("erasing conversation", "endpoint_id", endpointID, "sender_id", senderID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	slog.Info("conversation erased", "endpoint_id", endpointID, "sender_id", senderID)
	w.WriteHeader(http.StatusNoContent)
}
