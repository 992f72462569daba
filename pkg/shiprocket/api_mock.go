package shiprocket

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnLogin            func(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	OnCreateAdhocOrder func(ctx context.Context, token string, payload *OrderPayload) (*CreateOrderResponse, error)

	// Call counters, safe for concurrent use.
	LoginCalls       atomic.Int64
	CreateOrderCalls atomic.Int64
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Login returns a mock bearer token.
func (m *MockAPIClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	m.LoginCalls.Add(1)

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewError(KindAuth, "simulated login failure").
			WithStatusCode(401).
			WithBody(`{"message":"Wrong email or password"}`)
	}

	if m.OnLogin != nil {
		return m.OnLogin(ctx, req)
	}

	return &LoginResponse{Token: "sr-token-" + uuid.New().String()[:8]}, nil
}

// CreateAdhocOrder returns a mock order creation response.
func (m *MockAPIClient) CreateAdhocOrder(ctx context.Context, token string, payload *OrderPayload) (*CreateOrderResponse, error) {
	m.CreateOrderCalls.Add(1)

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, NewError(KindSubmission, "simulated order rejection").
			WithStatusCode(422).
			WithBody(`{"message":"Invalid pickup location"}`)
	}

	if m.OnCreateAdhocOrder != nil {
		return m.OnCreateAdhocOrder(ctx, token, payload)
	}

	orderID := float64(100000 + time.Now().UnixNano()%900000)
	return &CreateOrderResponse{
		Parsed: map[string]any{
			"order_id":    orderID,
			"shipment_id": orderID + 1,
			"status":      "NEW",
		},
		RawBody: "",
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
