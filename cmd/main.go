package main

import (
	"chat-core/gateway"
	"chat-core/internal"
	"chat-core/moderation"
	"chat-core/observability"
	"chat-core/repositories"
	"chat-core/runtime"
	"chat-core/runtime/workers"
	"chat-core/search"
	"chat-core/services"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so that every defer executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Repositories & Services
	conversationRepository := repositories.NewConversationRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log)
	userRepository := repositories.NewUserRepository(db)

	messageIndex := search.NewMessageIndex(blugeWriter, log, config.SearchLimit)
	conversationService := services.NewConversationService(conversationRepository, messageRepository, userRepository)
	messageService := services.NewMessageService(conversationRepository, messageRepository, userRepository, messageIndex)
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)

	// 4. Runtime: supervision, registry, orchestration
	sup := workers.NewSupervisor(log)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, sup, registry, config.BufferSize, config.SinkTimeout)

	stats := observability.NewStats()
	orchestrator.AddSinks(stats, messageIndex)
	if terms := splitTerms(config.FlaggedTerms); len(terms) > 0 {
		moderator, err := moderation.NewModerator(terms)
		if err != nil {
			return fmt.Errorf("failed to build moderator: %w", err)
		}
		orchestrator.AddSinks(moderation.NewSink(moderator, orchestrator, log))
	}
	orchestrator.AddWorkers(workers.NewHealthMonitoringWorker(log, stats, config.MetricInterval))

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}

	// 6. HTTP / WebSocket server
	gw := gateway.NewGateway(log, authService, conversationService, messageService,
		orchestrator, gateway.WebSocketConfig{
			MaxMessageSize: config.WSMaxMessageSize,
			PongWait:       config.WSPongWait,
			PingInterval:   config.WSPingInterval,
			WriteWait:      config.WSWriteWait,
			SendBuffer:     config.ConnectionBufferSize,
		})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: gw.Router()}

	internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.DefaultMapper, stats.Snapshot)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}

func splitTerms(raw string) []string {
	var terms []string
	for _, term := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(term); trimmed != "" {
			terms = append(terms, trimmed)
		}
	}
	return terms
}
