package main

import (
	"context"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/tournevent/fulfillment/internal/config"
	"github.com/tournevent/fulfillment/internal/fulfillment"
	"github.com/tournevent/fulfillment/internal/orders"
	"github.com/tournevent/fulfillment/internal/rabbit"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/shiprocket"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initStore(ctx context.Context, cfg *config.Config) (orders.Store, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}
	return orders.NewMongoStore(client.Database(cfg.MongoDBName)), closeFn, nil
}

func initCarrier(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *shiprocket.Client {
	return shiprocket.New(shiprocket.Config{
		BaseURL:        cfg.ShiprocketBaseURL,
		Token:          cfg.ShiprocketToken,
		Email:          cfg.ShiprocketEmail,
		Password:       cfg.ShiprocketPassword,
		PickupLocation: cfg.ShiprocketPickup,
		ChannelID:      cfg.ShiprocketChannelID,
		HomeCountry:    cfg.HomeCountry,
		UseMock:        cfg.ShiprocketUseMock,
	}, logger, tracer)
}

func initConsumer(cfg *config.Config, handler *fulfillment.Handler, logger *otelzap.Logger) (*rabbit.Consumer, func(), error) {
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	consumer, err := rabbit.NewConsumer(ch, handler, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	closeFn := func() {
		ch.Close()
		conn.Close()
	}
	return consumer, closeFn, nil
}
