package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/internal/server"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/shiprocket"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestServer(mockAPI *shiprocket.MockAPIClient) *server.Server {
	logger := otelzap.New(zap.NewNop())
	client := shiprocket.NewWithAPIClient(
		shiprocket.Config{Token: "preset-token", PickupLocation: "Warehouse-7"},
		mockAPI,
		logger,
		nil,
	)
	return server.New(server.Config{Port: 0}, client, logger, telemetry.NewMetrics(prometheus.NewRegistry()))
}

func postOrder(t *testing.T, srv *server.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/shiprocket/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

const validOrderBody = `{
	"order_id": "O1",
	"billing": {
		"first_name": "A",
		"address_1": "X",
		"city": "C",
		"postal_code": "1",
		"country_code": "in",
		"phone": "999"
	},
	"items": [
		{"title": "Shirt", "variant_id": "v1", "quantity": 2, "unit_price": 500}
	]
}`

func TestAdhocOrder_Success(t *testing.T) {
	mockAPI := shiprocket.NewMockAPIClient()
	var submitted *shiprocket.OrderPayload
	mockAPI.OnCreateAdhocOrder = func(ctx context.Context, token string, payload *shiprocket.OrderPayload) (*shiprocket.CreateOrderResponse, error) {
		submitted = payload
		return &shiprocket.CreateOrderResponse{
			Parsed: map[string]any{"order_id": float64(999), "shipment_id": float64(1000)},
		}, nil
	}

	rec := postOrder(t, newTestServer(mockAPI), validOrderBody)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(999), resp["carrier_order_id"])
	assert.Equal(t, float64(1000), resp["shipment_id"])

	require.NotNil(t, submitted)
	assert.Equal(t, "O1", submitted.OrderID)
	assert.Equal(t, "Warehouse-7", submitted.PickupLocation)
	assert.Equal(t, "IN", submitted.BillingCountry)
	// Admin submissions default to Prepaid.
	assert.Equal(t, "Prepaid", submitted.PaymentMethod)
	assert.Equal(t, float64(1000), submitted.SubTotal)
}

func TestAdhocOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing order id", `{"billing": {"first_name": "A"}, "items": [{"title": "Shirt", "quantity": 1}]}`},
		{"missing addresses", `{"order_id": "O1", "items": [{"title": "Shirt", "quantity": 1}]}`},
		{"shipping without billing", `{"order_id": "O1", "shipping": {"first_name": "A", "address_1": "X", "city": "C", "postal_code": "1"}, "items": [{"title": "Shirt", "quantity": 1}]}`},
		{"missing items", `{"order_id": "O1", "billing": {"first_name": "A"}}`},
		{"empty items", `{"order_id": "O1", "billing": {"first_name": "A"}, "items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := shiprocket.NewMockAPIClient()
			rec := postOrder(t, newTestServer(mockAPI), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.EqualValues(t, 0, mockAPI.CreateOrderCalls.Load())
		})
	}
}

func TestAdhocOrder_InvalidJSON(t *testing.T) {
	rec := postOrder(t, newTestServer(shiprocket.NewMockAPIClient()), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdhocOrder_CarrierRejection(t *testing.T) {
	mockAPI := shiprocket.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	rec := postOrder(t, newTestServer(mockAPI), validOrderBody)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(422), resp["carrier_status"])
	assert.Equal(t, `{"message":"Invalid pickup location"}`, resp["carrier_body"])
}

func TestAdhocOrder_ExplicitPaymentMethod(t *testing.T) {
	mockAPI := shiprocket.NewMockAPIClient()
	var submitted *shiprocket.OrderPayload
	mockAPI.OnCreateAdhocOrder = func(ctx context.Context, token string, payload *shiprocket.OrderPayload) (*shiprocket.CreateOrderResponse, error) {
		submitted = payload
		return &shiprocket.CreateOrderResponse{Parsed: map[string]any{"order_id": float64(1)}}, nil
	}

	body := `{
		"order_id": "O2",
		"payment_method": "COD",
		"billing": {"first_name": "A", "address_1": "X", "city": "C", "postal_code": "1"},
		"items": [{"title": "Shirt", "quantity": 1, "price": 250}]
	}`
	rec := postOrder(t, newTestServer(mockAPI), body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, submitted)
	assert.Equal(t, "COD", submitted.PaymentMethod)
	assert.Equal(t, float64(250), submitted.SubTotal)
}

func TestAdhocOrder_StateUsedWhenProvinceEmpty(t *testing.T) {
	mockAPI := shiprocket.NewMockAPIClient()
	var submitted *shiprocket.OrderPayload
	mockAPI.OnCreateAdhocOrder = func(ctx context.Context, token string, payload *shiprocket.OrderPayload) (*shiprocket.CreateOrderResponse, error) {
		submitted = payload
		return &shiprocket.CreateOrderResponse{Parsed: map[string]any{"order_id": float64(1)}}, nil
	}

	body := `{
		"order_id": "O3",
		"billing": {"first_name": "A", "address_1": "X", "city": "C", "postal_code": "1", "state": "KA"},
		"items": [{"title": "Shirt", "quantity": 1, "unit_price": 100}]
	}`
	rec := postOrder(t, newTestServer(mockAPI), body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, submitted)
	assert.Equal(t, "KA", submitted.BillingState)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(shiprocket.NewMockAPIClient())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(shiprocket.NewMockAPIClient())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
