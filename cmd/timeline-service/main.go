package main

import (
	"context"
	"errors"
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
	"github.com/prevalet-health/platform/pkg/gateway/middleware"
	"github.com/prevalet-health/platform/pkg/records"
	"github.com/prevalet-health/platform/pkg/timeline"
)

func main() {
	logger.Init("timeline-service")
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	userRepo := records.NewRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate records tables")
	}

	redisClient := database.GetRedis()

	svc := timeline.NewService(userRepo, redisClient, cfg.TimelineCacheTTL)
	handler := timeline.NewHTTPHandler(svc)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(cfg.EvaluationTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, svc.HandleEvaluationEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("evaluation event consumer stopped")
		}
	}()

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Timeline Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Timeline Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Timeline Service stopped")
}
