package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/config"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/ports"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/usecase"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/chunking"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/extractor/pdfurl"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/llm/ollama"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/llm/openai"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/queue/nats"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/repository/postgres"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/resilience"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/scraper"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/vector/memory"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/infrastructure/vector/qdrant"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Pipeline ports.QuestionAnswerer
	Admin    ports.KnowledgeBaseAdmin
	Rebuild  ports.KnowledgeBaseBuilder

	closeFn func()
}

func New(ctx context.Context, service string, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	caseRepo := postgres.NewCaseRepository(db)
	if err := caseRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	embedder := ollama.NewEmbedder(ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel), executor)
	completer := openai.NewCompleter(openai.Options{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
	})

	var store ports.VectorStore
	switch cfg.VectorBackend {
	case "memory":
		store = memory.New()
	default:
		store = qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	}

	rules, err := scraper.LoadRules(cfg.ScraperRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load scraper rules: %w", err)
	}
	fetcher := scraper.NewFetcher(rules, time.Duration(cfg.ScrapeTimeoutSecs)*time.Second)
	urls := pdfurl.New(cfg.SeedPDFPath)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	rebuildUC := usecase.NewRebuildUseCase(
		urls, fetcher, caseRepo, chunker, embedder, store, cfg.EmbedBatchSize, logger,
	)

	ranker := usecase.NewRanker(embedder, store, rebuildUC, usecase.RankerConfig{
		TopK:        cfg.RAGTopK,
		RerankTopK:  cfg.RAGRerankTopK,
		MaxDistance: cfg.RAGMaxDistance,
	}, logger)

	template, err := usecase.LoadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}
	pipeline := usecase.NewPipeline(ranker, completer, template, cfg.RAGTopK, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Queue:    queue,
		Pipeline: pipeline,
		Admin:    usecase.NewRebuildRequester(queue, logger),
		Rebuild:  rebuildUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
