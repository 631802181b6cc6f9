package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-screener/internal/config"
	"resume-screener/internal/domain/ports/adapter"
	"resume-screener/internal/infra/adapters/engine"
	"resume-screener/internal/infra/bus"
	pg "resume-screener/internal/infra/db/postgres"
	"resume-screener/internal/infra/extract"
	"resume-screener/internal/infra/logging"
	"resume-screener/internal/infra/metrics"
	red "resume-screener/internal/infra/redis"
	"resume-screener/internal/infra/web"
	"resume-screener/internal/infra/worker"
	"resume-screener/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (deterministic engine, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	analysisCache := red.NewAnalysisCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	jobRepo := pg.NewJobRepo(pool)
	resumeRepo := pg.NewResumeRepo(pool)
	interviewRepo := pg.NewInterviewRepo(pool)
	feedbackRepo := pg.NewFeedbackRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Analysis engine (OpenAI -> Gemini -> deterministic dev engine) ----
	var eng adapter.AnalysisEngine
	switch {
	case cfg.AI.OpenAIKey != "":
		eng, err = engine.NewOpenAIEngine(cfg.AI.OpenAIKey, cfg.AI.DefaultModel, cfg.AI.TitleModel, cfg.AI.MaxPromptTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai engine")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("engine: openai")
	case cfg.AI.GeminiKey != "":
		eng, err = engine.NewGeminiEngine(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxPromptTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini engine")
		}
		logger.Info().Str("model", cfg.AI.DefaultModel).Msg("engine: gemini")
	case cfg.Runtime.Dev:
		eng = engine.NewNoopEngine()
		logger.Warn().Msg("engine: deterministic dev engine, results are synthetic")
	default:
		logger.Fatal().Msgf("no engine configured: set ai.openai_key or ai.gemini_key in %s", *cfgPath)
	}

	// ---- Progress bus and pipeline ----
	events := bus.New()
	workerPool := worker.NewPool(cfg.Pipeline.Workers, logger)
	workerPool.Start(ctx)
	defer workerPool.Stop()

	pipeline := worker.NewPipeline(
		ctx,
		jobRepo,
		resumeRepo,
		eng,
		events,
		extract.NewDocumentExtractor(),
		analysisCache,
		workerPool,
		cfg.Pipeline.EngineTime,
		cfg.Pipeline.EventGrace,
		logger,
	)

	// ---- Use cases ----
	jobUC := usecase.NewJobUseCase(jobRepo, resumeRepo, txManager, pipeline, events, logger)
	interviewUC := usecase.NewInterviewUseCase(interviewRepo, resumeRepo, txManager)
	feedbackUC := usecase.NewFeedbackUseCase(feedbackRepo, resumeRepo, txManager)

	// ---- HTTP server ----
	srv := web.NewServer(jobUC, interviewUC, feedbackUC, events, rateLimiter, cfg.Upload, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
