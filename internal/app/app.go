package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/finsight-ai/finsight/internal/common"
	"github.com/finsight-ai/finsight/internal/handlers"
	"github.com/finsight-ai/finsight/internal/interfaces"
	"github.com/finsight-ai/finsight/internal/services/agents"
	"github.com/finsight-ai/finsight/internal/services/chunker"
	"github.com/finsight-ai/finsight/internal/services/embeddings"
	"github.com/finsight-ai/finsight/internal/services/llm"
	"github.com/finsight-ai/finsight/internal/services/processing"
	"github.com/finsight-ai/finsight/internal/services/rag"
	"github.com/finsight-ai/finsight/internal/services/transactions"
	"github.com/finsight-ai/finsight/internal/services/vectorstore"
	"github.com/finsight-ai/finsight/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core pipeline services
	ChunkerService     *chunker.Service
	EmbeddingService   interfaces.EmbeddingService
	VectorStore        interfaces.VectorStore
	RetrievalService   interfaces.RetrievalService
	LLMService         interfaces.LLMService
	PlanService        interfaces.PlanService
	TransactionService *transactions.Service

	// Background re-embedding sweep
	ProcessingScheduler *processing.Scheduler

	// HTTP handlers
	PlanHandler        *handlers.PlanHandler
	ContextHandler     *handlers.ContextHandler
	TransactionHandler *handlers.TransactionHandler
	StatusHandler      *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.initHandlers()

	logger.Info().
		Str("environment", cfg.Environment).
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Str("embeddings_provider", cfg.Embeddings.Provider).
		Bool("vector_index", cfg.VectorIndex.Enabled).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initStorage() error {
	manager, err := badger.NewManager(&a.Config.Storage.Badger, a.Logger)
	if err != nil {
		return err
	}
	a.StorageManager = manager
	return nil
}

func (a *App) initServices() error {
	a.ChunkerService = chunker.NewService(a.Config.RAG.MaxChunkSize, a.Logger)

	// Shared per-user lock registry: chunk-set rewrites vs. searches
	userLocks := common.NewUserLocks()

	embedder, err := embeddings.NewService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize embedding service: %w", err)
	}
	a.EmbeddingService = embedder

	var index interfaces.VectorIndex
	if a.Config.VectorIndex.Enabled {
		qdrant, err := vectorstore.NewQdrantIndex(&a.Config.VectorIndex, embedder.Dimension(), a.Logger)
		if err != nil {
			// The remote index is an optimization; the local scan carries
			// search when it cannot come up.
			a.Logger.Warn().Err(err).Msg("Vector index unavailable, using local search only")
		} else {
			index = qdrant
		}
	}
	a.VectorStore = vectorstore.NewService(a.StorageManager.ChunkStorage(), index, userLocks, a.Logger)

	a.RetrievalService = rag.NewService(a.EmbeddingService, a.VectorStore, a.Logger)

	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.LLMService = llmService

	spending := agents.NewSpendingAnalyst(a.RetrievalService, a.LLMService, a.Config.RAG.AgentTopK, a.Logger)
	budget := agents.NewBudgetPlanner(a.RetrievalService, a.LLMService, a.Config.RAG.AgentTopK, a.Logger)
	investment := agents.NewInvestmentAdvisor(a.RetrievalService, a.LLMService, a.Config.RAG.AgentTopK, a.Logger)
	a.PlanService = agents.NewCoordinator(
		spending, budget, investment,
		a.RetrievalService,
		a.StorageManager.TransactionStorage(),
		a.Config.RAG.CitationTopK,
		a.Logger,
	)

	a.TransactionService = transactions.NewService(
		a.StorageManager.TransactionStorage(),
		a.ChunkerService,
		a.EmbeddingService,
		a.VectorStore,
		userLocks,
		a.Logger,
	)

	if a.Config.Processing.Enabled {
		sweep := processing.NewService(
			a.StorageManager.ChunkStorage(),
			a.EmbeddingService,
			a.Config.Processing.Limit,
			a.Logger,
		)
		a.ProcessingScheduler = processing.NewScheduler(sweep, a.Logger)
		if err := a.ProcessingScheduler.Start(a.Config.Processing.Schedule); err != nil {
			return fmt.Errorf("failed to start processing scheduler: %w", err)
		}
	}

	return nil
}

func (a *App) initHandlers() {
	a.PlanHandler = handlers.NewPlanHandler(a.PlanService, a.Logger)
	a.ContextHandler = handlers.NewContextHandler(a.RetrievalService, a.Logger)
	a.TransactionHandler = handlers.NewTransactionHandler(a.TransactionService, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Config, a.StorageManager.ChunkStorage(), a.LLMService, a.Logger)
}

// Close shuts down background work and releases resources
func (a *App) Close() error {
	if a.ProcessingScheduler != nil {
		a.ProcessingScheduler.Stop()
	}
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	a.Logger.Info().Msg("Application closed")
	return nil
}
