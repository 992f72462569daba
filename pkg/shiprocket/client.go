// Package shiprocket provides integration with the Shiprocket shipping API:
// token acquisition and caching, order-payload normalization, and
// submission of adhoc fulfillment orders.
package shiprocket

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "shiprocket"

// Config holds Shiprocket configuration.
type Config struct {
	BaseURL string

	// Token is an optional long-lived preset token; when set it takes
	// precedence over the login exchange.
	Token    string
	Email    string
	Password string

	// PickupLocation is the default pickup label configured on the
	// carrier side.
	PickupLocation string

	// ChannelID is an optional sales-channel identifier attached to
	// submitted orders.
	ChannelID string

	// HomeCountry is the ISO-2 country assumed for addresses without one.
	HomeCountry string

	Timeout time.Duration
	UseMock bool // When true, uses mock API client
}

// Client is the Shiprocket submission client. It obtains tokens through its
// TokenSource and delegates API calls to the underlying APIClient (mock or
// HTTP).
type Client struct {
	config     Config
	apiClient  APIClient
	tokens     *TokenSource
	normalizer *Normalizer
	logger     *otelzap.Logger
	tracer     trace.Tracer
}

// New creates a new Shiprocket client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new Shiprocket client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	creds := Credentials{Token: cfg.Token, Email: cfg.Email, Password: cfg.Password}

	return &Client{
		config:     cfg,
		apiClient:  apiClient,
		tokens:     NewTokenSource(creds, apiClient, logger),
		normalizer: &Normalizer{PickupLocation: cfg.PickupLocation, HomeCountry: cfg.HomeCountry, ChannelID: cfg.ChannelID},
		logger:     logger,
		tracer:     tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// Tokens exposes the client's token source.
func (c *Client) Tokens() *TokenSource {
	return c.tokens
}

// BuildPayload normalizes an order view into the carrier schema.
func (c *Client) BuildPayload(view *OrderView) (*OrderPayload, error) {
	return c.normalizer.Payload(view)
}

// SubmitOrder sends a normalized payload to the carrier.
// The payload is treated as an immutable value; retry policy belongs to the
// caller.
func (c *Client) SubmitOrder(ctx context.Context, payload *OrderPayload) (*SubmissionResult, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.Error("Shiprocket auth error", zap.Error(err))
		return nil, err
	}

	c.logger.Info("Creating Shiprocket order",
		zap.String("order_id", payload.OrderID),
		zap.String("pickup_location", payload.PickupLocation),
		zap.Int("item_count", len(payload.OrderItems)),
	)

	resp, err := c.apiClient.CreateAdhocOrder(ctx, token, payload)
	if err != nil {
		c.logger.Error("Shiprocket API error", zap.Error(err))
		return nil, err
	}

	return submissionResult(resp), nil
}

// submissionResult extracts carrier identifiers from the response.
func submissionResult(resp *CreateOrderResponse) *SubmissionResult {
	result := &SubmissionResult{}
	if resp.Parsed != nil {
		result.Raw = resp.Parsed
		result.CarrierOrderID = extractCarrierID(resp.Parsed)
		result.ShipmentID = resp.Parsed["shipment_id"]
	} else {
		result.Raw = resp.RawBody
	}
	return result
}

// extractCarrierID returns the first identifier among order_id, shipment_id,
// id and data.order_id.
func extractCarrierID(parsed map[string]any) any {
	for _, key := range []string{"order_id", "shipment_id", "id"} {
		if v, ok := parsed[key]; ok && v != nil {
			return v
		}
	}
	if data, ok := parsed["data"].(map[string]any); ok {
		if v, ok := data["order_id"]; ok && v != nil {
			return v
		}
	}
	return nil
}
