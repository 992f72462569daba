package shiprocket

import (
	"context"
)

// APIClient defines the interface for Shiprocket API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Login exchanges account credentials for a bearer token.
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	// CreateAdhocOrder submits a shaped order payload for fulfillment.
	CreateAdhocOrder(ctx context.Context, token string, payload *OrderPayload) (*CreateOrderResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Shiprocket external API structure)
// ============================================================================

// LoginRequest is the body for POST /v1/external/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login response. Only the token is consumed.
type LoginResponse struct {
	Token string `json:"token"`
}

// OrderPayload is the Shiprocket adhoc order schema. Shipping fields carry
// omitempty because the carrier treats their presence as significant: when
// shipping is billing they must be absent, not null-filled. A payload is
// constructed once by the Normalizer and never mutated afterwards.
type OrderPayload struct {
	OrderID        string `json:"order_id"`
	OrderDate      string `json:"order_date"`
	PickupLocation string `json:"pickup_location"`

	BillingCustomerName string `json:"billing_customer_name"`
	BillingLastName     string `json:"billing_last_name"`
	BillingAddress      string `json:"billing_address"`
	BillingAddress2     string `json:"billing_address_2"`
	BillingCity         string `json:"billing_city"`
	BillingPincode      string `json:"billing_pincode"`
	BillingState        string `json:"billing_state"`
	BillingCountry      string `json:"billing_country"`
	BillingEmail        string `json:"billing_email"`
	BillingPhone        string `json:"billing_phone"`

	ShippingIsBilling    bool   `json:"shipping_is_billing"`
	ShippingCustomerName string `json:"shipping_customer_name,omitempty"`
	ShippingLastName     string `json:"shipping_last_name,omitempty"`
	ShippingAddress      string `json:"shipping_address,omitempty"`
	ShippingAddress2     string `json:"shipping_address_2,omitempty"`
	ShippingCity         string `json:"shipping_city,omitempty"`
	ShippingPincode      string `json:"shipping_pincode,omitempty"`
	ShippingState        string `json:"shipping_state,omitempty"`
	ShippingCountry      string `json:"shipping_country,omitempty"`

	OrderItems []PayloadItem `json:"order_items"`

	PaymentMethod string  `json:"payment_method"`
	SubTotal      float64 `json:"sub_total"`

	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`

	// ChannelID is a number when the configured value parses as one,
	// a string otherwise.
	ChannelID any `json:"channel_id,omitempty"`
}

// PayloadItem is one order line in the Shiprocket schema.
type PayloadItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Tax          float64 `json:"tax"`
	HSN          string  `json:"hsn,omitempty"`
}

// CreateOrderResponse carries the carrier's response to an order submission.
// The body is always retained as text; Parsed is nil when it was not a JSON
// object.
type CreateOrderResponse struct {
	Parsed  map[string]any
	RawBody string
}
