package main

import (
	"chat-relay/auth"
	"chat-relay/infrastructure/rest"
	"chat-relay/infrastructure/ws"
	"chat-relay/internal"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal or a server error.
// Returning instead of exiting lets the deferred cleanups run.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	contactRepository := repositories.NewContactRepository(db)

	// 3. Metrics
	registerer := prometheus.NewRegistry()
	registerer.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewCollector(registerer)

	// 4. Presence, delivery & supervision
	registry := runtime.NewPresenceRegistry()
	fanout := workers.NewPresenceFanout(log, config.BufferSize, config.SinkTimeout).
		OnDelivered(metrics.RecordBroadcast)
	lifecycle := runtime.NewLifecycle(log, registry, fanout).
		OnChange(metrics.SetConnections)
	router := runtime.NewRouter(log, registry, messageRepository, contactRepository, config.MaxTextLength).
		OnOutcome(metrics.RecordDelivery)
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(workers.NewChannelCapacityWorker(log, []workers.NamedQueue{fanout.Queue()},
		metrics.SetQueueDepth, config.MetricInterval))
	orchestrator := runtime.NewOrchestrator(log, supervisor, registry, lifecycle, router, fanout, messageRepository)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	orchestrator.Start(ctx)

	// 6. Transports
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	wsServer := ws.NewServer(log, orchestrator, tokens, metrics, ws.Config{
		ConnectionBufferSize: config.ConnectionBufferSize,
		FramesPerSecond:      config.MaxFramesPerSecond,
		FrameBurst:           config.FrameBurst,
	})
	server := &http.Server{
		Addr: config.Address(),
		Handler: rest.NewRouter(rest.RouterDeps{
			Log:       log,
			Chat:      orchestrator,
			Contacts:  services.NewContactService(log, contactRepository),
			Tokens:    tokens,
			WebSocket: wsServer,
			Metrics:   observability.Handler(registerer),
		}),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		orchestrator.Stop()
		return err
	}

	// 8. Final Cleanup, sockets first so that every connection leaves the registry
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	wsServer.Shutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
