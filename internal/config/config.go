package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Redis        RedisConfig
	NATS         NATSConfig
	Log          LogConfig
	Conversation ConversationConfig
	Dedupe       DedupeConfig
	LLM          LLMConfig
	WhatsApp     WhatsAppConfig
	Clients      ClientsConfig
	Admin        AdminConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NATSConfig is optional: an empty URL means inbound messages are handled
// inline by the webhook instead of going through the work queue.
type NATSConfig struct {
	URL string
}

func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}

type LogConfig struct {
	Level  string
	Format string
}

type ConversationConfig struct {
	Backend      string // redis | sqlite
	SQLitePath   string
	TTL          time.Duration
	MaxTurns     int
	ContextTurns int
}

type DedupeConfig struct {
	TTL time.Duration
}

type LLMConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// Enabled reports whether enough credentials were provided to build a chat model.
func (c LLMConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

type WhatsAppConfig struct {
	APIBaseURL  string
	APIVersion  string
	VerifyToken string
	AppSecret   string

	// Default credentials used when a tenant has none of its own.
	DefaultPhoneNumberID string
	DefaultAccessToken   string

	SendRate  float64
	SendBurst int
	Timeout   time.Duration
}

type ClientsConfig struct {
	Source                  string // postgres | file
	FilePath                string
	EncryptionKey           string
	DefaultInstructionsPath string
}

type AdminConfig struct {
	APIKey             string
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:           k.String("db.host"),
			Port:           k.Int("db.port"),
			User:           k.String("db.user"),
			Password:       k.String("db.password"),
			Name:           k.String("db.name"),
			SSLMode:        k.String("db.sslmode"),
			MaxConns:       int32(k.Int("db.max.conns")),
			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
		Conversation: ConversationConfig{
			Backend:      k.String("conversation.backend"),
			SQLitePath:   k.String("conversation.sqlite.path"),
			MaxTurns:     k.Int("conversation.max.turns"),
			ContextTurns: k.Int("conversation.context.turns"),
		},
		LLM: LLMConfig{
			APIKey:             k.String("ark.api.key"),
			AccessKey:          k.String("ark.access.key"),
			SecretKey:          k.String("ark.secret.key"),
			Model:              k.String("ark.model"),
			BaseURL:            k.String("ark.base.url"),
			Region:             k.String("ark.region"),
			Temperature:        k.Float64("ark.temperature"),
			MaxTokens:          k.Int("ark.max.tokens"),
			BreakerMaxFailures: uint32(k.Int("llm.breaker.max.failures")),
		},
		WhatsApp: WhatsAppConfig{
			APIBaseURL:           k.String("whatsapp.api.base.url"),
			APIVersion:           k.String("whatsapp.api.version"),
			VerifyToken:          k.String("whatsapp.verify.token"),
			AppSecret:            k.String("whatsapp.app.secret"),
			DefaultPhoneNumberID: k.String("whatsapp.phone.number.id"),
			DefaultAccessToken:   k.String("whatsapp.access.token"),
			SendRate:             k.Float64("whatsapp.send.rate"),
			SendBurst:            k.Int("whatsapp.send.burst"),
		},
		Clients: ClientsConfig{
			Source:                  k.String("clients.source"),
			FilePath:                k.String("clients.file"),
			EncryptionKey:           k.String("encryption.key"),
			DefaultInstructionsPath: k.String("default.instructions.path"),
		},
		Admin: AdminConfig{
			APIKey: k.String("admin.api.key"),
		},
	}

	if origins := k.String("cors.allowed.origins"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Admin.CORSAllowedOrigins = append(cfg.Admin.CORSAllowedOrigins, o)
			}
		}
	}

	applyDefaults(cfg)

	// Parse durations
	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"conversation.ttl", "72h", &cfg.Conversation.TTL},
		{"dedupe.ttl", "48h", &cfg.Dedupe.TTL},
		{"llm.timeout", "15s", &cfg.LLM.Timeout},
		{"llm.breaker.timeout", "30s", &cfg.LLM.BreakerTimeout},
		{"whatsapp.timeout", "10s", &cfg.WhatsApp.Timeout},
	}
	for _, d := range durations {
		raw := k.String(d.key)
		if raw == "" {
			raw = d.def
		}
		*d.dest, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", d.key, err)
		}
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "intake"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "intake"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 10
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Conversation.Backend == "" {
		cfg.Conversation.Backend = "redis"
	}
	if cfg.Conversation.SQLitePath == "" {
		cfg.Conversation.SQLitePath = "conversations.db"
	}
	if cfg.Conversation.MaxTurns == 0 {
		cfg.Conversation.MaxTurns = 20
	}
	if cfg.Conversation.ContextTurns == 0 {
		cfg.Conversation.ContextTurns = 10
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.4
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 400
	}
	if cfg.LLM.BreakerMaxFailures == 0 {
		cfg.LLM.BreakerMaxFailures = 3
	}
	if cfg.WhatsApp.APIBaseURL == "" {
		cfg.WhatsApp.APIBaseURL = "https://graph.facebook.com"
	}
	if cfg.WhatsApp.APIVersion == "" {
		cfg.WhatsApp.APIVersion = "v20.0"
	}
	if cfg.WhatsApp.SendRate == 0 {
		cfg.WhatsApp.SendRate = 20
	}
	if cfg.WhatsApp.SendBurst == 0 {
		cfg.WhatsApp.SendBurst = 5
	}
	if cfg.Clients.Source == "" {
		cfg.Clients.Source = "postgres"
	}
	if cfg.Clients.FilePath == "" {
		cfg.Clients.FilePath = "clients.yaml"
	}
}
