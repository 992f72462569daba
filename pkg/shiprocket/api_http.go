package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	loginPath       = "/v1/external/auth/login"
	createAdhocPath = "/v1/external/orders/create/adhoc"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Login exchanges account credentials for a bearer token.
// POST /v1/external/auth/login
func (c *HTTPAPIClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, loginPath, "", req)
	if err != nil {
		return nil, NewError(KindAuth, "login request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(KindAuth, "reading login response").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewError(KindAuth, "login rejected").
			WithStatusCode(resp.StatusCode).
			WithBody(string(body))
	}

	var login LoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return nil, NewError(KindAuth, "decoding login response").WithCause(err)
	}
	if login.Token == "" {
		return nil, NewError(KindAuth, "login response carried no token").
			WithStatusCode(resp.StatusCode).
			WithBody(string(body))
	}

	return &login, nil
}

// CreateAdhocOrder submits a shaped order payload for fulfillment.
// POST /v1/external/orders/create/adhoc
//
// The response body is read fully as text before any JSON parse so carrier
// error detail survives non-JSON bodies.
func (c *HTTPAPIClient) CreateAdhocOrder(ctx context.Context, token string, payload *OrderPayload) (*CreateOrderResponse, error) {
	resp, err := c.doRequest(ctx, createAdhocPath, token, payload)
	if err != nil {
		return nil, NewError(KindTransport, "order create request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError(KindTransport, "reading order create response").WithCause(err)
	}
	text := string(body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewError(KindSubmission, "order create rejected").
			WithStatusCode(resp.StatusCode).
			WithBody(text)
	}

	result := &CreateOrderResponse{RawBody: text}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err == nil {
		result.Parsed = parsed
	}

	return result, nil
}

// doRequest performs a JSON POST with an optional bearer token.
func (c *HTTPAPIClient) doRequest(ctx context.Context, path, token string, body any) (*http.Response, error) {
	url := c.baseURL + path

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
