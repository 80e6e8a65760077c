package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/support-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration (ticket audit store)
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Data layout
	DocumentsDir string `env:"DOCUMENTS_DIR" envDefault:"data/documents"`
	IndexDir     string `env:"INDEX_DIR" envDefault:"data/indexes"`

	// Embedding configuration
	EmbeddingDimension int `env:"EMBEDDING_DIMENSION" envDefault:"256"`

	// Ingestion configuration
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"50"`

	// Retrieval defaults (wider recall before the confidence gate)
	RetrievalTopK      int     `env:"RETRIEVAL_TOP_K" envDefault:"5"`
	RetrievalMinScore  float64 `env:"RETRIEVAL_MIN_SCORE" envDefault:"0.25"`
	RelevanceThreshold float64 `env:"RELEVANCE_THRESHOLD" envDefault:"0.3"`

	// Response cache
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Generation
	MaxAnswerLength int           `env:"MAX_ANSWER_LENGTH" envDefault:"1000"`
	MaxMessageLen   int           `env:"MAX_MESSAGE_LENGTH" envDefault:"5000"`
	GenerateTimeout time.Duration `env:"GENERATE_TIMEOUT" envDefault:"30s"`

	// External service configurations
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`
	SMTPCfg         SMTPConfig         `envPrefix:"SMTP_"`

	// Agent pool
	AgentMaxLoad int `env:"AGENT_MAX_LOAD" envDefault:"5"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// LLMConnectorConfig configures the chat-completions generation provider
type LLMConnectorConfig struct {
	HTTPClientConfig
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/api/v1/chat/completions"`
	Model               string               `env:"MODEL" envDefault:"mistralai/mixtral-8x7b-instruct"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0.1"`
	MaxTokens           int                  `env:"MAX_TOKENS" envDefault:"512"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// SMTPConfig configures escalation email delivery. Empty user/password
// switches the notifier into simulated (log-only) mode.
type SMTPConfig struct {
	Host        string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port        int    `env:"PORT" envDefault:"587"`
	User        string `env:"USER"`
	Password    string `env:"PASSWORD"`
	SenderEmail string `env:"SENDER_EMAIL"`
	SenderName  string `env:"SENDER_NAME" envDefault:"Support Platform"`
}

// Configured reports whether outbound email can actually be sent
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Password != "" && c.SenderEmail != ""
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.ChunkSize < 50 || cfg.ChunkSize > 4000 {
		return fmt.Errorf("CHUNK_SIZE must be between 50 and 4000, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be between 0 and CHUNK_SIZE(%d), got %d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.EmbeddingDimension < 16 || cfg.EmbeddingDimension > 4096 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be between 16 and 4096, got %d", cfg.EmbeddingDimension)
	}
	if cfg.RetrievalMinScore < -1 || cfg.RetrievalMinScore > 1 {
		return fmt.Errorf("RETRIEVAL_MIN_SCORE must be within [-1,1], got %f", cfg.RetrievalMinScore)
	}
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.AgentMaxLoad < 1 || cfg.AgentMaxLoad > 20 {
		return fmt.Errorf("AGENT_MAX_LOAD must be between 1 and 20, got %d", cfg.AgentMaxLoad)
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
