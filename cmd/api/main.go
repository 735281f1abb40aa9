package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aiox-platform/intake/internal/api"
	"github.com/aiox-platform/intake/internal/clients"
	"github.com/aiox-platform/intake/internal/config"
	"github.com/aiox-platform/intake/internal/conversation"
	"github.com/aiox-platform/intake/internal/database"
	"github.com/aiox-platform/intake/internal/dedupe"
	"github.com/aiox-platform/intake/internal/leads"
	"github.com/aiox-platform/intake/internal/llm"
	mw "github.com/aiox-platform/intake/internal/middleware"
	inats "github.com/aiox-platform/intake/internal/nats"
	"github.com/aiox-platform/intake/internal/orchestrator"
	iredis "github.com/aiox-platform/intake/internal/redis"
	"github.com/aiox-platform/intake/internal/server"
	"github.com/aiox-platform/intake/internal/whatsapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]api.HealthCheck{"postgres": nil, "nats": nil}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	checks["redis"] = func(ctx context.Context) error { return iredis.HealthCheck(ctx, redisClient) }

	// Conversation store
	var storage conversation.Storage
	switch cfg.Conversation.Backend {
	case "sqlite":
		sqlite, err := conversation.OpenSQLite(cfg.Conversation.SQLitePath)
		if err != nil {
			slog.Error("opening sqlite", "error", err, "path", cfg.Conversation.SQLitePath)
			os.Exit(1)
		}
		defer sqlite.Close()
		go pruneLoop(ctx, sqlite, cfg.Conversation.TTL)
		storage = sqlite
	default:
		storage = conversation.NewRedisStorage(redisClient, cfg.Conversation.TTL)
	}
	store := conversation.NewStore(storage, cfg.Conversation.TTL, cfg.Conversation.MaxTurns)
	slog.Info("conversation store ready", "backend", cfg.Conversation.Backend, "ttl", cfg.Conversation.TTL)

	ledger := dedupe.NewLedger(redisClient, cfg.Dedupe.TTL)

	// Client profiles
	var finder clients.Finder
	switch cfg.Clients.Source {
	case "file":
		dir, err := clients.LoadDirectory(cfg.Clients.FilePath)
		if err != nil {
			slog.Error("loading client directory", "error", err)
			os.Exit(1)
		}
		slog.Info("client directory loaded", "path", cfg.Clients.FilePath, "clients", dir.Len())
		finder = dir
	default:
		if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
			slog.Error("running migrations", "error", err)
			os.Exit(1)
		}
		pool, err := database.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			slog.Error("connecting to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		checks["postgres"] = func(ctx context.Context) error { return database.HealthCheck(ctx, pool) }

		cipher, err := clients.NewTokenCipher(cfg.Clients.EncryptionKey)
		if err != nil {
			slog.Error("creating token cipher", "error", err)
			os.Exit(1)
		}
		finder = clients.NewPostgresRepository(pool, cipher)
	}

	instructions, err := clients.LoadInstructions(cfg.Clients.DefaultInstructionsPath)
	if err != nil {
		slog.Error("loading default instructions", "error", err)
		os.Exit(1)
	}
	profiles := clients.NewResolver(finder, clients.Profile{
		EndpointID:   cfg.WhatsApp.DefaultPhoneNumberID,
		AccessToken:  cfg.WhatsApp.DefaultAccessToken,
		Instructions: instructions,
		Active:       true,
	})

	// Generation
	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		slog.Error("creating chat model", "error", err)
		os.Exit(1)
	}
	breaker := llm.NewCircuitBreaker(llm.BreakerConfig{
		MaxFailures: cfg.LLM.BreakerMaxFailures,
		Timeout:     cfg.LLM.BreakerTimeout,
	})
	generator := llm.NewService(chatModel, breaker, cfg.LLM.Timeout)

	// Orchestrator
	orch := orchestrator.New(ledger, store, profiles, generator, whatsapp.NewClient(cfg.WhatsApp), orchestrator.Options{
		ContextTurns:    cfg.Conversation.ContextTurns,
		DeliveryTimeout: cfg.WhatsApp.Timeout,
	})

	// NATS (optional): queue inbound messages and publish lead events
	var submitter orchestrator.Submitter = orch
	consumerDone := make(chan struct{})
	if cfg.NATS.Enabled() {
		natsClient, err := inats.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to nats", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		checks["nats"] = natsClient.HealthCheck

		publisher := inats.NewPublisher(natsClient.JetStream())
		orch.WithLeadPublisher(publisher)
		submitter = orchestrator.NewQueueSubmitter(publisher)

		go func() {
			defer close(consumerDone)
			if err := orch.Consume(ctx, inats.NewConsumerManager(natsClient.JetStream())); err != nil {
				slog.Error("turn consumer stopped", "error", err)
				stop()
			}
		}()
	} else {
		close(consumerDone)
		slog.Info("NATS not configured, turns run inline")
	}

	webhook := whatsapp.NewHandler(cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AppSecret, submitter)
	leadHandler := leads.NewHandler(store)

	// Router
	router := api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: cfg.Admin.CORSAllowedOrigins,
		AdminAPIKey:        cfg.Admin.APIKey,
		WebhookRateLimiter: mw.NewRateLimiter(redisClient, "webhook", 600, 60).Middleware,
		Checks:             checks,
	}, api.HandlerSet{
		VerifyWebhook:  webhook.Verify,
		ReceiveWebhook: webhook.Receive,
		GetLead:        leadHandler.Get,
		DeleteLead:     leadHandler.Delete,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	srv.OnShutdown(func(ctx context.Context) error {
		select {
		case <-consumerDone:
		case <-ctx.Done():
			return ctx.Err()
		}
		return orch.Wait(ctx)
	})
	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// pruneLoop drops expired conversations from the SQLite backend, which has
// no native expiry.
func pruneLoop(ctx context.Context, sqlite *conversation.SQLiteStorage, ttl time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sqlite.Prune(ctx, time.Now().Add(-ttl))
			if err != nil {
				slog.Warn("pruning conversations", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("pruned expired conversations", "count", n)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
