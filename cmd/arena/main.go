package main

import (
	"arena-lab/infrastructure/grpc/server"
	"arena-lab/infrastructure/ws"
	"arena-lab/internal"
	"arena-lab/repositories"
	"arena-lab/runtime"
	"arena-lab/runtime/workers"
	"arena-lab/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes reported to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Arena terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Deferred cleanups run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if config.DebugDBPort > 0 {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s?prefix=profile:", config.DebugDBPort, endpoint))
		database.StartDebugServer(db, config.DebugDBPort, endpoint, ProfileMapper)
	}

	// 3. Supervision & Orchestration
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	profiles := repositories.NewProfileRepository(db, logger)
	sessions := services.NewSessionService(config.SessionSecret, config.SessionTokenDuration)

	orchestrator := runtime.NewOrchestrator(logger, sup, profiles, sessions, runtime.Settings{
		CommandBufferSize: config.CommandBufferSize,
		SweepInterval:     config.SweepInterval,
		StaleRoomAfter:    config.StaleRoomAfter,
		StatsInterval:     config.StatsInterval,
		CharReplacement:   charReplacement,
	})
	if err := orchestrator.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("orchestrator failed to start: %w", err)
	}
	defer orchestrator.Stop()

	errChan := make(chan error, 2)

	// 4. Websocket & HTTP
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/ws", ws.NewServer(logger, orchestrator, sessions, config.SendBufferSize))

	monitoring := server.NewMonitoringServer(logger, orchestrator)
	mux.HandleFunc("/api/monitoring", monitoring.HandleMonitoring)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info("Starting arena server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 5. gRPC ops server (health checks)
	opsAddress := fmt.Sprintf("%s:%d", config.Host, config.OpsPort)
	listener, err := net.Listen("tcp", opsAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", opsAddress, err)
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	monitoring.Register(s)
	go monitoring.Watch(ctx, time.Second)
	go func() {
		logger.Info("Starting gRPC ops server", "address", opsAddress)
		for serviceName := range s.GetServiceInfo() {
			logger.Debug("gRPC exposed services", "name", serviceName)
		}
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 7. Graceful shutdown: stop accepting sockets, then drain the engine
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	s.GracefulStop()
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}

// ProfileMapper renders a stored profile in the Badger inspector.
func ProfileMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if !strings.HasPrefix(key, "profile:") {
		return row
	}
	p, err := repositories.DecodeProfile(val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = "PROFILE"
	row.Detail = fmt.Sprintf("%s kills=%d deaths=%d friends=%d pending=%d",
		p.Username, p.Stats.Kills, p.Stats.Deaths, len(p.Friends), len(p.Requests))
	return row
}
