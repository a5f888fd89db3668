package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nervilabs/nervi-backend/internal/api"
	"github.com/nervilabs/nervi-backend/internal/auth"
	"github.com/nervilabs/nervi-backend/internal/config"
	"github.com/nervilabs/nervi-backend/internal/core"
	"github.com/nervilabs/nervi-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := store.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, logger)
	if err != nil {
		logger.Fatal("failed to initialize supabase client", zap.Error(err))
	}

	llm := core.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)

	svc := api.Services{
		Chat:      core.NewChatService(db, llm, logger),
		DailyRead: core.NewDailyReadService(db, core.DefaultThresholds(), logger),
		Schedules: core.NewScheduleService(db, logger),
		Journal:   core.NewJournalService(db),
		Triggers:  core.NewTriggerService(db),
		LifeStory: core.NewLifeStoryService(db, llm, logger),
		Programs:  core.NewProgramService(db, llm, logger),
		Tasks:     core.NewTaskService(db, llm, logger),
		Push: core.NewPushService(db, core.VAPIDKeys{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subject:    cfg.VAPIDSubject,
		}, cfg.DueWindowMinutes, logger),
		Promos: core.NewPromoService(db, logger),
	}

	handler := api.NewHandler(db, tokens, svc, cfg.CronSecret, logger)
	router := api.NewRouter(handler, logger)

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
