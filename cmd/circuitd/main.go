// Command circuitd answers circuit evaluation requests over NATS.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/edp1096/toy-circuit/pkg/analysis"
	"github.com/edp1096/toy-circuit/pkg/matrix"
)

// Config holds all environment-based configuration.
type Config struct {
	NATSURL string
	Subject string
	Queue   string
	Events  string
	Backend string
	Rate    float64 // requests per second
	Burst   int
	Wait    time.Duration
	Level   slog.Level
}

func loadConfig() (Config, error) {
	cfg := Config{
		NATSURL: envOr("NATS_URL", nats.DefaultURL),
		Subject: envOr("CIRCUIT_SUBJECT", "circuit.evaluate"),
		Queue:   envOr("CIRCUIT_QUEUE", "circuitd"),
		Events:  os.Getenv("CIRCUIT_EVENTS"),
		Backend: envOr("CIRCUIT_BACKEND", "dense"),
	}

	var err error
	if cfg.Rate, err = strconv.ParseFloat(envOr("CIRCUIT_RATE", "50"), 64); err != nil {
		return cfg, fmt.Errorf("CIRCUIT_RATE: %w", err)
	}
	if cfg.Burst, err = strconv.Atoi(envOr("CIRCUIT_BURST", "10")); err != nil {
		return cfg, fmt.Errorf("CIRCUIT_BURST: %w", err)
	}
	if cfg.Wait, err = time.ParseDuration(envOr("CIRCUIT_WAIT", "2s")); err != nil {
		return cfg, fmt.Errorf("CIRCUIT_WAIT: %w", err)
	}
	if err := cfg.Level.UnmarshalText([]byte(strings.ToUpper(envOr("LOG_LEVEL", "INFO")))); err != nil {
		return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("circuitd exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := matrix.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("circuitd"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Close()

	svc := newService(nc, cfg, logger, analysis.WithBackend(backend))
	sub, err := svc.start()
	if err != nil {
		return err
	}
	logger.Info("circuitd listening", "subject", cfg.Subject, "queue", cfg.Queue, "backend", backend.String())

	<-ctx.Done()
	logger.Info("shutting down")
	return sub.Drain()
}
