package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/textmod/modgate/pkg/app/autoblock"
	"github.com/textmod/modgate/pkg/app/decision"
	"github.com/textmod/modgate/pkg/app/feedback"
	"github.com/textmod/modgate/pkg/app/pipeline"
	"github.com/textmod/modgate/pkg/app/rag"
	"github.com/textmod/modgate/pkg/app/scoring"
	"github.com/textmod/modgate/pkg/cache"
	"github.com/textmod/modgate/pkg/common"
	"github.com/textmod/modgate/pkg/config"
	handlers "github.com/textmod/modgate/pkg/handlers/http"
	infraCache "github.com/textmod/modgate/pkg/infra/cache"
	"github.com/textmod/modgate/pkg/infra/classifier"
	"github.com/textmod/modgate/pkg/infra/database"
	infraEmbedding "github.com/textmod/modgate/pkg/infra/embedding"
	embeddingFactory "github.com/textmod/modgate/pkg/infra/embedding/factory"
	"github.com/textmod/modgate/pkg/infra/jwt"
	infraLogger "github.com/textmod/modgate/pkg/infra/logger"
	providersFactory "github.com/textmod/modgate/pkg/infra/providers/factory"
	"github.com/textmod/modgate/pkg/infra/repository"
	"github.com/textmod/modgate/pkg/infra/rules"
	"github.com/textmod/modgate/pkg/infra/workers"
	"github.com/textmod/modgate/pkg/middleware"
	"github.com/textmod/modgate/pkg/server"
)

func main() {
	ctx := context.Background()
	envFile := os.Getenv("ENV_FILE")

	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize database
	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	cacheInstance, err := cache.NewCache(common.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	indexCreator := infraCache.NewRedisIndexCreator(cacheInstance.Client(), logger)
	if err := indexCreator.CreateIndex(ctx, common.CaseBaseIndexName); err != nil {
		logger.Fatalf("Failed to create vector index: %v", err)
	}

	// repository
	logRepository := repository.NewModerationLogRepository(db.DB)
	caseRepository := repository.NewCaseBaseRepository(db.DB)
	vectorRepository := repository.NewRedisVectorRepository(cacheInstance, logger)

	// embeddings and hosted model
	httpClient := &fasthttp.Client{}
	embeddingLocator := embeddingFactory.NewServiceLocator(logger, httpClient)
	embedder, err := embeddingLocator.GetService(cfg.Embeddings.Provider)
	if err != nil {
		logger.Fatalf("Failed to resolve embedding provider: %v", err)
	}
	dedupEmbedder := infraEmbedding.NewDedupCreator(embedder)
	cachedEmbedder := infraEmbedding.NewCachedCreator(cacheInstance, dedupEmbedder, logger)
	if err := cachedEmbedder.FlushOnModelChange(ctx, cfg.Embeddings.Model); err != nil {
		logger.WithError(err).Warn("Failed to flush stale embedding cache")
	}

	providerLocator := providersFactory.NewProviderLocator()
	classifierClient := classifier.NewHTTPClient(httpClient, cfg.Classifier.BaseURL, cfg.Classifier.Timeout, logger)

	ruleMatcher, err := rules.NewMatcher(cfg.Moderation.Rules)
	if err != nil {
		logger.Fatalf("Failed to build rule matcher: %v", err)
	}

	pool := workers.NewPool(cfg.Workers.InteractiveSlots, cfg.Workers.BatchSlots, logger)

	// application services
	scorer := scoring.NewEnsembleScorer(
		classifierClient, providerLocator, ruleMatcher, cfg.Provider, cfg.Moderation.Ensemble, logger,
	)
	corrector := rag.NewCorrector(vectorRepository, cfg.Moderation.Rag, logger)
	autoBlockChecker := autoblock.NewChecker(vectorRepository, cfg.Moderation.AutoBlock, logger)
	engine := decision.NewEngine(cfg.Moderation.Decision)

	evaluator := pipeline.NewEvaluator(
		cachedEmbedder, cfg.Embeddings, autoBlockChecker, scorer, corrector, engine,
		logRepository, pool, cfg.Moderation, logger,
	)
	feedbackService := feedback.NewService(
		logRepository, caseRepository, vectorRepository, cachedEmbedder,
		cfg.Embeddings, cfg.Moderation.MinCaseLength, logger,
	)

	// Rebuild the vector index from the confirmed case base after the
	// destructive index recreation above.
	pool.Batch("case-base-reindex", 5*time.Minute, func(ctx context.Context) error {
		indexed, err := feedbackService.Reindex(ctx)
		if err != nil {
			return err
		}
		logger.WithField("indexed", indexed).Info("case base reindexed")
		return nil
	})

	jwtManager := jwt.NewJwtManager(cfg.Auth.AdminSecret)

	middlewareTransport := middleware.Transport{
		AdminAuthMiddleware: middleware.NewAdminAuthMiddleware(logger, jwtManager),
	}

	handlerTransport := handlers.HandlerTransport{
		EvaluateHandler:   handlers.NewEvaluateHandler(logger, evaluator),
		ConfirmLogHandler: handlers.NewConfirmLogHandler(logger, feedbackService),
		ListLogsHandler:   handlers.NewListLogsHandler(logger, logRepository),
		DeleteLogHandler:  handlers.NewDeleteLogHandler(logger, logRepository),
		PurgeLogsHandler:  handlers.NewPurgeLogsHandler(logger, logRepository),
		ListCasesHandler:  handlers.NewListCasesHandler(logger, caseRepository),
		DeleteCaseHandler: handlers.NewDeleteCaseHandler(logger, feedbackService),
		GetVersionHandler: handlers.NewGetVersionHandler(logger),
	}

	srv := server.NewModerationServer(server.ModerationServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	pool.Shutdown()
	fmt.Println("server gracefully stopped")
}
