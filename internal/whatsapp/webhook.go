package whatsapp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/aiox-platform/intake/internal/api"
	"github.com/aiox-platform/intake/internal/orchestrator"
)

// Meta retries anything that is not a 200 and caps payloads well below this.
const maxBodyBytes = 1 << 20

// Handler serves the Cloud API webhook: subscription verification and
// message notifications.
type Handler struct {
	verifyToken string
	appSecret   string
	submitter   orchestrator.Submitter
}

func NewHandler(verifyToken, appSecret string, submitter orchestrator.Submitter) *Handler {
	return &Handler{verifyToken: verifyToken, appSecret: appSecret, submitter: submitter}
}

// Verify answers the subscription handshake by echoing hub.challenge.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || h.verifyToken == "" || q.Get("hub.verify_token") != h.verifyToken {
		api.HandleError(w, api.ErrForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, q.Get("hub.challenge"))
}

// Receive accepts a notification, submits every text-bearing message and
// acknowledges with 200 regardless of what happens to the turns.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if h.appSecret != "" {
		header := r.Header.Get(signatureHeader)
		if header == "" {
			api.HandleError(w, api.ErrUnauthorized)
			return
		}
		if !ValidSignature(h.appSecret, body, header) {
			slog.Warn("webhook signature mismatch", "remote_addr", r.RemoteAddr)
			api.HandleError(w, api.ErrForbidden)
			return
		}
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Acknowledge anyway: a retry would carry the same body.
		slog.Warn("decoding webhook payload", "error", err)
		api.JSONMessage(w, http.StatusOK, "ignored")
		return
	}

	submitted := 0
	for _, in := range Inbounds(payload) {
		if err := h.submitter.Submit(r.Context(), in); err != nil {
			slog.Error("submitting inbound message", "message_id", in.MessageID, "error", err)
			continue
		}
		submitted++
	}

	slog.Debug("webhook received", "object", payload.Object, "submitted", submitted)
	api.JSONMessage(w, http.StatusOK, "received")
}

// Inbounds flattens a notification into turn inputs, skipping statuses and
// messages without text.
func Inbounds(payload WebhookPayload) []orchestrator.Inbound {
	var out []orchestrator.Inbound
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				text := m.Body()
				if text == "" {
					continue
				}
				out = append(out, orchestrator.Inbound{
					EndpointID: change.Value.Metadata.PhoneNumberID,
					SenderID:   m.From,
					MessageID:  m.ID,
					Text:       text,
					ReceivedAt: m.SentAt(),
				})
			}
		}
	}
	return out
}
