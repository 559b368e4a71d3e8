package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfreitas/studypilot/internal/achievements"
	"github.com/mfreitas/studypilot/internal/api"
	"github.com/mfreitas/studypilot/internal/auth"
	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/billing"
	"github.com/mfreitas/studypilot/internal/chat"
	"github.com/mfreitas/studypilot/internal/config"
	"github.com/mfreitas/studypilot/internal/connectivity"
	"github.com/mfreitas/studypilot/internal/exam"
	"github.com/mfreitas/studypilot/internal/lessons"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/notify"
	"github.com/mfreitas/studypilot/internal/outbox"
	"github.com/mfreitas/studypilot/internal/review"
	"github.com/mfreitas/studypilot/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyPilot Companion Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("backend_url=%s", cfg.BackendURL)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("connectivity_interval=%ds", cfg.ConnectivityInterval)
	log.Debug("queue_retry_limit=%d", cfg.QueueRetryLimit)

	// Open local state store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open local store: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing local store")
		st.Close()
	}()

	// Remote gateway
	tokens := auth.NewStaticProvider(cfg.AuthToken)
	gateway := backend.New(cfg.BackendURL, tokens, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)

	// Connectivity monitor probes the backend host
	monitor := connectivity.NewMonitor(
		connectivity.NewHTTPProber(cfg.BackendURL),
		time.Duration(cfg.ConnectivityInterval)*time.Second,
	)

	// Offline action queue drains on every offline-to-online transition
	queue := outbox.New(st, gateway, monitor, cfg.QueueRetryLimit)
	unsubscribe := monitor.OnChange(queue.OnConnectivityChange)
	defer unsubscribe()

	// Engines and services
	notifier := notify.NewService(st)
	examEngine := exam.NewEngine(gateway, queue)
	reviewEngine := review.NewEngine(gateway, queue, st)
	evaluator := achievements.NewEvaluator(st, notifier)
	chatService := chat.NewService(gateway, queue, st)
	lessonService := lessons.NewService(gateway, queue)

	srv := api.NewServer()
	srv.Gateway = gateway
	srv.Store = st
	srv.Monitor = monitor
	srv.Queue = queue
	srv.Exam = examEngine
	srv.Review = reviewEngine
	srv.Achievements = evaluator
	srv.Chat = chatService
	srv.Lessons = lessonService
	srv.Notify = notifier
	srv.Billing = billing.Disabled{}

	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("local API listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping exam countdown")
	examEngine.Stop()

	log.Debug("stopping connectivity monitor")
	cancel()
	monitor.Stop()

	log.Info("===========================================")
	log.Info("StudyPilot Companion Stopped")
	log.Info("===========================================")
}
