package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/fulfillment/internal/fulfillment"
	"github.com/tournevent/fulfillment/internal/server"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "fulfillment",
	Short:   "Delivro Fulfillment Bridge - Shiprocket carrier integration service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the event consumer and HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	if !cfg.HasCarrierCredentials() && !cfg.ShiprocketUseMock {
		logger.Warn("No Shiprocket credentials configured; submissions will fail until provided")
	}

	store, storeClose, err := initStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("order store: %w", err)
	}
	defer storeClose()

	carrier := initCarrier(cfg, logger, tracer)
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	handler := fulfillment.NewHandler(store, carrier, logger, metrics)

	logger.Info("Starting Delivro Fulfillment Bridge",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("mock_carrier", cfg.ShiprocketUseMock),
	)

	group, ctx := errgroup.WithContext(ctx)

	if cfg.RabbitEnabled {
		consumer, rabbitClose, err := initConsumer(cfg, handler, logger)
		if err != nil {
			return fmt.Errorf("event consumer: %w", err)
		}
		defer rabbitClose()
		group.Go(func() error { return consumer.Run(ctx) })
	}

	srv := server.New(server.Config{Port: cfg.Port}, carrier, logger, metrics)
	group.Go(func() error { return srv.Run(ctx) })

	if err := group.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
