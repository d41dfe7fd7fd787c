package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ArrudaAsaph/jogue-a-velha/internal/bridge"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/config"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/hub"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/logging"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/redis"
	"github.com/ArrudaAsaph/jogue-a-velha/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create Redis client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	return client
}

func runGracefulShutdown(srv *server.Server, br *bridge.Bridge, monitor *hub.Monitor, broadcaster *hub.Broadcaster, cancel context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancelTimeout := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelTimeout()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cancel()
		br.Wait()
		monitor.Stop()
		broadcaster.Shutdown("Server shutting down")

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	registry := hub.NewRegistry()
	broadcaster := hub.NewBroadcaster(registry)
	store := redis.NewRoomStore(redisClient)
	bus := redis.NewEventBus(redisClient, cfg.EventChannel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	br := bridge.New(bus, broadcaster, clock)
	if err := br.Start(ctx); err != nil {
		slog.Error("Failed to start event bridge", "error", err)
		os.Exit(1)
	}

	monitor := hub.NewMonitor(registry, clock, cfg.HealthInterval)
	monitor.Start()

	srv := server.NewServer(cfg, registry, broadcaster, store, clock, redisClient.Ping)

	done := runGracefulShutdown(srv, br, monitor, broadcaster, cancel)

	slog.Info("Server starting", "port", cfg.Port, "event_channel", cfg.EventChannel)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
