//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiox-platform/intake/internal/api"
	"github.com/aiox-platform/intake/internal/clients"
	"github.com/aiox-platform/intake/internal/config"
	"github.com/aiox-platform/intake/internal/conversation"
	"github.com/aiox-platform/intake/internal/dedupe"
	"github.com/aiox-platform/intake/internal/leads"
	"github.com/aiox-platform/intake/internal/llm"
	"github.com/aiox-platform/intake/internal/orchestrator"
	"github.com/aiox-platform/intake/internal/whatsapp"
)

type cannedGenerator struct{}

func (cannedGenerator) Generate(context.Context, llm.Request) (string, error) {
	return "Merci Marie, un conseiller vous recontacte très vite.", nil
}

// graphStub records messages sent to the Cloud API.
type graphStub struct {
	mu   sync.Mutex
	sent []map[string]any
}

func (g *graphStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var msg map[string]any
	_ = json.Unmarshal(body, &msg)
	g.mu.Lock()
	g.sent = append(g.sent, msg)
	g.mu.Unlock()
	_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.reply"}]}`))
}

func (g *graphStub) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

const webhookBody = `{"object":"whatsapp_business_account","entry":[{"id":"W","changes":[{"field":"messages","value":{
  "messaging_product":"whatsapp",
  "metadata":{"display_phone_number":"33100000000","phone_number_id":"E1"},
  "messages":[{"from":"S1","id":"wamid.in-1","timestamp":"1700000000","type":"text",
    "text":{"body":"Bonjour, je m'appelle Marie Dupont, je veux une rhinoplastie, budget 4000€, urgent"}}]}}]}]}`

func TestWebhookTurn(t *testing.T) {
	env := SetupTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.RedisClient.FlushDB(ctx).Err())

	graph := &graphStub{}
	graphSrv := httptest.NewServer(graph)
	t.Cleanup(graphSrv.Close)

	store := conversation.NewStore(conversation.NewRedisStorage(env.RedisClient, time.Hour), time.Hour, 20)
	orch := orchestrator.New(
		dedupe.NewLedger(env.RedisClient, time.Hour),
		store,
		clients.NewResolver(nil, clients.Profile{AccessToken: "tok"}),
		cannedGenerator{},
		whatsapp.NewClient(config.WhatsAppConfig{APIBaseURL: graphSrv.URL, APIVersion: "v20.0"}),
		orchestrator.Options{},
	)

	webhook := whatsapp.NewHandler("verify", "app-secret", orch)
	leadHandler := leads.NewHandler(store)
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{AdminAPIKey: "admin"}, api.HandlerSet{
		VerifyWebhook:  webhook.Verify,
		ReceiveWebhook: webhook.Receive,
		GetLead:        leadHandler.Get,
		DeleteLead:     leadHandler.Delete,
	}))
	t.Cleanup(srv.Close)

	signed := map[string]string{"X-Hub-Signature-256": whatsapp.Sign("app-secret", []byte(webhookBody))}

	// Meta retries the same notification: only one reply goes out.
	for i := 0; i < 2; i++ {
		resp := DoRequest(t, srv.URL, http.MethodPost, "/webhook", []byte(webhookBody), signed)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, orch.Wait(waitCtx))
	assert.Equal(t, 1, graph.count())

	resp := DoRequest(t, srv.URL, http.MethodGet, "/api/v1/leads/E1/S1", nil, map[string]string{"X-API-Key": "admin"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data leads.Record `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, leads.Hot, body.Data.Category)
	assert.Equal(t, 2, body.Data.Turns)
}
