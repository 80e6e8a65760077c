package builder

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/futig/support-backend/internal/api"
	agentsapi "github.com/futig/support-backend/internal/api/agents"
	chatapi "github.com/futig/support-backend/internal/api/chat"
	documentsapi "github.com/futig/support-backend/internal/api/documents"
	ticketsapi "github.com/futig/support-backend/internal/api/tickets"
	"github.com/futig/support-backend/internal/cache"
	"github.com/futig/support-backend/internal/config"
	"github.com/futig/support-backend/internal/embedding/hashing"
	"github.com/futig/support-backend/internal/escalation"
	"github.com/futig/support-backend/internal/ingest"
	"github.com/futig/support-backend/internal/integration/email"
	"github.com/futig/support-backend/internal/integration/llm"
	"github.com/futig/support-backend/internal/intent"
	"github.com/futig/support-backend/internal/pkg/formatter"
	"github.com/futig/support-backend/internal/pkg/metrics"
	"github.com/futig/support-backend/internal/pkg/validator"
	"github.com/futig/support-backend/internal/repository"
	"github.com/futig/support-backend/internal/retriever"
	"github.com/futig/support-backend/internal/usecase/chat"
	"github.com/futig/support-backend/internal/vectorstore"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	ticketRepo := repository.NewTicketPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize retrieval stack
	embedder := hashing.NewEmbedder(cfg.EmbeddingDimension)
	indexManager := vectorstore.NewManager(cfg.IndexDir, embedder, logger)
	docRetriever := retriever.NewRetriever(indexManager)
	chunker := ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	ingester := ingest.NewIngester(cfg.DocumentsDir, indexManager, chunker, logger)
	logger.Info("Retrieval stack initialized",
		zap.String("embedder", embedder.Name()),
		zap.Int("dimension", embedder.Dimension()),
	)

	// Initialize escalation stack
	agentPool := escalation.NewPool(cfg.DocumentsDir, cfg.AgentMaxLoad, logger)
	loadRosters(cfg.DocumentsDir, agentPool, logger)
	notifier := email.NewConnector(cfg.SMTPCfg, logger)
	router := escalation.NewRouter(agentPool, ticketRepo, notifier, logger)
	classifier := intent.NewClassifier()
	logger.Info("Escalation stack initialized")

	// Initialize generation providers (with mock support)
	var generator chat.Generator
	if cfg.EnableMocks {
		logger.Info("Using mock connector for generation")
		generator = llm.NewFallbackChain(logger, llm.NewMockConnector(logger))
	} else {
		logger.Info("Using real connector for generation")
		generator = llm.NewFallbackChain(logger,
			llm.NewConnector(cfg.LLMConnectorCfg, cfg.MaxAnswerLength, logger),
		)
	}

	// Initialize validators
	chatValidator := validator.NewValidator(cfg.MaxMessageLen)
	logger.Info("Validators initialized")

	responseCache := cache.NewResponseCache(cfg.CacheTTL)
	collector := metrics.NewCollector()

	// Initialize use cases
	chatUC := chat.NewUsecase(
		classifier,
		docRetriever,
		router,
		generator,
		responseCache,
		chatValidator,
		collector,
		chat.Config{
			RetrievalTopK:      cfg.RetrievalTopK,
			RetrievalMinScore:  cfg.RetrievalMinScore,
			RelevanceThreshold: cfg.RelevanceThreshold,
			CacheTTL:           cfg.CacheTTL,
			GenerateTimeout:    cfg.GenerateTimeout,
		},
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC)
	documentsHandler := documentsapi.NewHandler(ingester, indexManager)
	agentsHandler := agentsapi.NewHandler(agentPool, chatValidator)
	ticketsHandler := ticketsapi.NewHandler(ticketRepo, formatter.NewFactory())
	logger.Info("API handlers initialized")

	// Setup router
	httpRouter := api.SetupRouter(chatHandler, documentsHandler, agentsHandler, ticketsHandler, collector, responseCache, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// loadRosters loads every tenant roster found under the documents directory.
// A missing directory or roster is fine: tenants can register agents later
// via the API.
func loadRosters(documentsDir string, pool *escalation.Pool, logger *zap.Logger) {
	entries, err := os.ReadDir(documentsDir)
	if err != nil {
		logger.Warn("documents directory not readable, skipping roster load",
			zap.String("dir", documentsDir), zap.Error(err))
		return
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tenantID := e.Name()
		agents, err := pool.LoadRoster(tenantID)
		if err != nil {
			logger.Warn("failed to load agent roster",
				zap.String("tenant_id", tenantID), zap.Error(err))
			continue
		}
		if len(agents) > 0 {
			logger.Info("agent roster loaded",
				zap.String("tenant_id", tenantID),
				zap.Int("agents", len(agents)),
			)
		}
	}
}
