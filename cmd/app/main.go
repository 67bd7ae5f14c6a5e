// File: cmd/app/main.go
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

	"github.com/joho/godotenv"

	"assistant-hub/internal/config"
	aiAdapters "assistant-hub/internal/infra/adapters/ai"
	pg "assistant-hub/internal/infra/db/postgres"
	"assistant-hub/internal/infra/logging"
	red "assistant-hub/internal/infra/redis"
	"assistant-hub/internal/infra/sched"
	"assistant-hub/internal/infra/security"
	"assistant-hub/internal/infra/web"
	"assistant-hub/internal/infra/worker"
	"assistant-hub/internal/runs"
	"assistant-hub/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop provider allowed, console logs)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	threadCache := red.NewThreadCache(redisClient, cfg.Redis.TTL)
	locker := red.NewLocker(redisClient)

	// ---- Encryption ----
	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		logger.Warn().Msg("security.encryption_key not set or not 32 bytes; falling back to dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	encSvc, err := security.NewEncryptionService(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption")
	}

	// ---- Repositories ----
	companyRepo := pg.NewCompanyRepo(pool)
	assistantRepo := pg.NewAssistantRepo(pool)
	documentRepo := pg.NewDocumentRepo(pool)
	vectorStoreRepo := pg.NewVectorStoreRepo(pool)
	threadRepo := pg.NewPostgresThreadRepo(pool, threadCache, encSvc)
	jobRepo := pg.NewRunJobRepo(pool, tm)

	// ---- Provider adapter + run poller ----
	api, err := aiAdapters.NewFromConfig(cfg.AI)
	if err != nil {
		logger.Fatal().Err(err).Msg("ai adapter")
	}
	logger.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.DefaultModel).Msg("provider configured")

	poller := runs.NewPoller(
		aiAdapters.NewRunClient(api),
		runs.WithMaxAttempts(cfg.Runs.MaxAttempts),
		runs.WithDelay(cfg.Runs.Delay),
	)

	// ---- Use cases ----
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	assistantUC := usecase.NewAssistantUseCase(companyRepo, assistantRepo, vectorStoreRepo, api, cfg.AI.DefaultModel)
	documentUC := usecase.NewDocumentUseCase(companyRepo, documentRepo, api)
	vectorStoreUC := usecase.NewVectorStoreUseCase(vectorStoreRepo, documentRepo, api)
	conversationUC := usecase.NewConversationUseCase(
		threadRepo, assistantRepo, jobRepo, api, poller, locker, rateLimiter,
		cfg.AI.Provider, cfg.AI.RateLimit, cfg.AI.RateWindow,
	)

	// ---- Worker pool + job processor ----
	pool2 := worker.NewPool(cfg.Worker.Workers, logger)
	pool2.Start(ctx)
	processor := worker.NewRunJobProcessor(jobRepo, conversationUC, cfg.Worker.PollInterval, logger)
	go processor.Start(ctx, pool2)

	// ---- Run reaper ----
	reaper := sched.NewRunReaper(cfg.Worker.ReapInterval, cfg.Worker.StuckAfter, jobRepo, logger)
	go func() { _ = reaper.Run(ctx) }()

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.Web.JWTSecret, !cfg.Runtime.Dev, "", cfg.Web.TokenTTL)
	srv := web.NewServer(companyUC, assistantUC, documentUC, vectorStoreUC, conversationUC, auth, cfg.Web.APIKey, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
	pool2.Stop()
}
