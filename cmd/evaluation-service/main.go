package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prevalet-health/platform/pkg/common/config"
	"github.com/prevalet-health/platform/pkg/common/database"
	"github.com/prevalet-health/platform/pkg/common/kafka"
	"github.com/prevalet-health/platform/pkg/common/logger"
	"github.com/prevalet-health/platform/pkg/evaluator"
	"github.com/prevalet-health/platform/pkg/gateway/middleware"
	"github.com/prevalet-health/platform/pkg/guideline"
	"github.com/prevalet-health/platform/pkg/records"
	"github.com/prevalet-health/platform/pkg/safety"
)

func main() {
	logger.Init("evaluation-service")
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	userRepo := records.NewRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate records tables")
	}

	evalRepo := evaluator.NewRepository(db)
	if err := evalRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate evaluation tables")
	}

	patterns, err := safety.LoadPatterns(cfg.SafetyPatternsPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to built-in safety patterns")
		patterns = safety.DefaultPatterns()
	}
	filter, err := safety.NewFilter(patterns)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to compile safety patterns")
	}

	store := guideline.NewStore(cfg.GuidelineRulesPath)
	if _, err := store.Get(); err != nil {
		logger.Log.WithError(err).Fatal("failed to load guideline rules")
	}

	producer := kafka.NewProducer(cfg.EvaluationTopic)
	defer producer.Close()

	redisClient := database.GetRedis()

	validator := records.NewValidator(cfg.AllowedObservationCats)
	recordsHandler := records.NewHTTPHandler(userRepo, validator)

	svc := evaluator.NewService(userRepo, evalRepo, store, filter, redisClient, producer, cfg.EvaluationCacheTTL)
	evalHandler := evaluator.NewHTTPHandler(svc)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	recordsHandler.Register(api)
	evalHandler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Evaluation Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.GuidelineReloadEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := store.Reload(); err != nil {
					logger.Log.WithError(err).Warn("scheduled guideline reload failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Evaluation Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Evaluation Service stopped")
}
