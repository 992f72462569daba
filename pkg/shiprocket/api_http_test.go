package shiprocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/pkg/shiprocket"
)

func TestHTTPAPIClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/external/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-live"})
	}))
	defer srv.Close()

	client := shiprocket.NewHTTPAPIClient(shiprocket.HTTPAPIClientConfig{BaseURL: srv.URL})

	resp, err := client.Login(context.Background(), &shiprocket.LoginRequest{
		Email:    "ops@example.com",
		Password: "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok-live", resp.Token)
}

func TestHTTPAPIClient_Login_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Wrong email or password"}`))
	}))
	defer srv.Close()

	client := shiprocket.NewHTTPAPIClient(shiprocket.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := client.Login(context.Background(), &shiprocket.LoginRequest{
		Email:    "ops@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.True(t, shiprocket.IsAuth(err))

	var srErr *shiprocket.Error
	require.ErrorAs(t, err, &srErr)
	assert.Equal(t, http.StatusUnauthorized, srErr.StatusCode)
	assert.Contains(t, srErr.Body, "Wrong email or password")
}

func TestHTTPAPIClient_CreateAdhocOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/external/orders/create/adhoc", r.URL.Path)
		assert.Equal(t, "Bearer tok-live", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "O1", payload["order_id"])

		json.NewEncoder(w).Encode(map[string]any{"order_id": 999, "status": "NEW"})
	}))
	defer srv.Close()

	client := shiprocket.NewHTTPAPIClient(shiprocket.HTTPAPIClientConfig{BaseURL: srv.URL})

	resp, err := client.CreateAdhocOrder(context.Background(), "tok-live", &shiprocket.OrderPayload{OrderID: "O1"})

	require.NoError(t, err)
	require.NotNil(t, resp.Parsed)
	assert.Equal(t, float64(999), resp.Parsed["order_id"])
	assert.NotEmpty(t, resp.RawBody)
}

func TestHTTPAPIClient_CreateAdhocOrder_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid pickup location"}`))
	}))
	defer srv.Close()

	client := shiprocket.NewHTTPAPIClient(shiprocket.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := client.CreateAdhocOrder(context.Background(), "tok-live", &shiprocket.OrderPayload{OrderID: "O1"})

	require.Error(t, err)
	assert.True(t, shiprocket.IsSubmission(err))

	var srErr *shiprocket.Error
	require.ErrorAs(t, err, &srErr)
	assert.Equal(t, http.StatusUnprocessableEntity, srErr.StatusCode)
	assert.Contains(t, srErr.Body, "Invalid pickup location")
}

func TestHTTPAPIClient_CreateAdhocOrder_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text ack"))
	}))
	defer srv.Close()

	client := shiprocket.NewHTTPAPIClient(shiprocket.HTTPAPIClientConfig{BaseURL: srv.URL})

	resp, err := client.CreateAdhocOrder(context.Background(), "tok-live", &shiprocket.OrderPayload{OrderID: "O1"})

	require.NoError(t, err)
	assert.Nil(t, resp.Parsed)
	assert.Equal(t, "plain text ack", resp.RawBody)
}

func TestHTTPAPIClient_TransportError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := shiprocket.NewHTTPAPIClient(shiprocket.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := client.CreateAdhocOrder(context.Background(), "tok", &shiprocket.OrderPayload{OrderID: "O1"})
	assert.True(t, shiprocket.IsTransport(err))

	_, err = client.Login(context.Background(), &shiprocket.LoginRequest{Email: "a", Password: "b"})
	assert.True(t, shiprocket.IsAuth(err))
}
