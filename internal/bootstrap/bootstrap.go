package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/resume-screener/internal/config"
	"github.com/kirillkom/resume-screener/internal/core/ports"
	"github.com/kirillkom/resume-screener/internal/core/usecase"
	"github.com/kirillkom/resume-screener/internal/infrastructure/chunking"
	"github.com/kirillkom/resume-screener/internal/infrastructure/extractor/document"
	"github.com/kirillkom/resume-screener/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/resume-screener/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/resume-screener/internal/infrastructure/queue/nats"
	"github.com/kirillkom/resume-screener/internal/infrastructure/resilience"
	"github.com/kirillkom/resume-screener/internal/infrastructure/vector/chromem"
	"github.com/kirillkom/resume-screener/internal/infrastructure/vector/postgres"
	"github.com/kirillkom/resume-screener/internal/infrastructure/vector/qdrant"
	"github.com/kirillkom/resume-screener/internal/observability/metrics"
)

type App struct {
	Config config.Config

	HTTPMetrics *metrics.HTTPServerMetrics
	Screener    *usecase.ScreenResumeUseCase

	closeFns []func()
}

type languageModel struct {
	generator ports.AnalysisGenerator
	embedder  ports.Embedder
	embedOne  func(ctx context.Context, text string) ([]float32, error)
}

// New wires one screening pipeline from cfg. cfg is expected to have passed Validate.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{
		Config:      cfg,
		HTTPMetrics: metrics.NewHTTPServerMetrics("api"),
	}

	executor := resilience.NewExecutor(llmResilienceConfig(cfg))

	model, err := newLanguageModel(ctx, cfg, executor)
	if err != nil {
		return nil, err
	}

	vectorDB, err := app.newVectorStore(ctx, cfg, model)
	if err != nil {
		app.Close()
		return nil, err
	}

	options := []usecase.ScreenOption{
		usecase.WithMetrics(metrics.NewScreeningMetrics("api", app.HTTPMetrics.Registry())),
		usecase.WithLogger(slog.Default()),
	}
	if cfg.NATSURL != "" {
		publisher, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		app.closeFns = append(app.closeFns, publisher.Close)
		options = append(options, usecase.WithEventPublisher(publisher))
	}

	extractor := document.NewExtractor(cfg.ScratchDir)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	analyzeUC := usecase.NewAnalyzeResumeUseCase(model.generator)
	storeUC := usecase.NewStoreAnalysisUseCase(chunker, model.embedder, vectorDB)
	app.Screener = usecase.NewScreenResumeUseCase(extractor, analyzeUC, storeUC, options...)

	slog.Info("screening_pipeline_ready",
		"llm_provider", cfg.LLMProvider,
		"vector_backend", cfg.VectorBackend,
		"events", cfg.NATSURL != "",
	)
	return app, nil
}

func llmResilienceConfig(cfg config.Config) resilience.Config {
	rc := resilience.DefaultConfig()
	rc.BreakerEnabled = cfg.LLMBreakerEnabled
	if cfg.LLMRetryMaxAttempts > 0 {
		rc.RetryMaxAttempts = cfg.LLMRetryMaxAttempts
	}
	return rc
}

func newLanguageModel(ctx context.Context, cfg config.Config, executor *resilience.Executor) (languageModel, error) {
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		client := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, float32(cfg.LLMTemperature), executor).
			WithTimeout(timeout)
		embedder := ollama.NewEmbedder(client)
		return languageModel{
			generator: ollama.NewGenerator(client),
			embedder:  embedder,
			embedOne:  embedder.EmbedOne,
		}, nil
	default:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:      cfg.GoogleAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			ChatModel:   cfg.GeminiModel,
			EmbedModel:  cfg.GeminiEmbedModel,
			Temperature: float32(cfg.LLMTemperature),
			Timeout:     timeout,
		}, executor)
		if err != nil {
			return languageModel{}, fmt.Errorf("init gemini: %w", err)
		}
		embedder := gemini.NewEmbedder(client)
		return languageModel{
			generator: gemini.NewGenerator(client),
			embedder:  embedder,
			embedOne:  embedder.EmbedOne,
		}, nil
	}
}

func (a *App) newVectorStore(ctx context.Context, cfg config.Config, model languageModel) (ports.VectorStore, error) {
	switch cfg.VectorBackend {
	case config.BackendQdrant:
		return qdrant.New(cfg.QdrantURL, cfg.VectorCollection), nil
	case config.BackendPostgres:
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closeFns = append(a.closeFns, func() { _ = db.Close() })
		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, nil
	default:
		store, err := chromem.Open(cfg.VectorStoreDir, cfg.VectorCollection, model.embedOne)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
		return store, nil
	}
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
