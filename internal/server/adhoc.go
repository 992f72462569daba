package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tournevent/fulfillment/pkg/shiprocket"
	"go.uber.org/zap"
)

// adhocOrderRequest is the admin submission body. It mirrors the carrier's
// field names so operators can paste payloads straight from carrier docs,
// while still passing through the normalizer's defaults and fallbacks.
type adhocOrderRequest struct {
	OrderID        string                        `json:"order_id"`
	OrderDate      string                        `json:"order_date"`
	PickupLocation string                        `json:"pickup_location"`
	Email          string                        `json:"email"`
	Billing        *adhocAddress                 `json:"billing"`
	Shipping       *adhocAddress                 `json:"shipping"`
	Items          []adhocItem                   `json:"items"`
	PaymentMethod  string                        `json:"payment_method"`
	SubTotal       *float64                      `json:"sub_total"`
	Dimensions     *shiprocket.PackageDimensions `json:"dimensions"`
	ChannelID      any                           `json:"channel_id"`
}

type adhocAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Province    string `json:"province"`
	State       string `json:"state"`
	CountryCode string `json:"country_code"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type adhocItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	SKU       string   `json:"sku"`
	VariantID string   `json:"variant_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Price     *float64 `json:"price"`
	Tax       float64  `json:"tax"`
	Discount  float64  `json:"discount"`
	HSN       string   `json:"hsn"`
}

// view translates the request into the normalizer's intermediate shape.
// Admin submissions default to Prepaid; there is no payment state to infer
// COD from.
func (r *adhocOrderRequest) view() *shiprocket.OrderView {
	view := &shiprocket.OrderView{
		OrderID:        r.OrderID,
		OrderDate:      r.OrderDate,
		PickupLocation: r.PickupLocation,
		Email:          r.Email,
		Billing:        r.Billing.view(),
		Shipping:       r.Shipping.view(),
		PaymentMethod:  r.PaymentMethod,
		SubTotal:       r.SubTotal,
		Dimensions:     r.Dimensions,
		ChannelID:      r.ChannelID,
	}
	if view.PaymentMethod == "" {
		view.PaymentMethod = "Prepaid"
	}

	view.Items = make([]shiprocket.ItemView, len(r.Items))
	for i, it := range r.Items {
		view.Items[i] = shiprocket.ItemView{
			Name:      it.Title,
			SKU:       it.SKU,
			VariantID: it.VariantID,
			LineID:    it.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Price:     it.Price,
			Tax:       it.Tax,
			Discount:  it.Discount,
			HSN:       it.HSN,
		}
	}
	return view
}

func (a *adhocAddress) view() *shiprocket.AddressView {
	if a == nil {
		return nil
	}
	return &shiprocket.AddressView{
		Name:        a.FirstName,
		LastName:    a.LastName,
		Line1:       a.Address1,
		Line2:       a.Address2,
		City:        a.City,
		PostalCode:  a.PostalCode,
		Region:      regionOf(a),
		CountryCode: a.CountryCode,
		Email:       a.Email,
		Phone:       a.Phone,
	}
}

func regionOf(a *adhocAddress) string {
	if a.Province != "" {
		return a.Province
	}
	return a.State
}

func (s *Server) handleAdhocOrder(c *gin.Context) {
	start := time.Now()

	var req adhocOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	// The normalizer would absorb a missing billing address through its
	// shipping fallback; manual submissions must supply one explicitly.
	if req.Billing == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a billing address is required"})
		return
	}

	payload, err := s.client.BuildPayload(req.view())
	if err != nil {
		s.metrics.RecordSubmission("admin", "failed", time.Since(start).Seconds())
		s.metrics.RecordError(string(shiprocket.ErrorKind(err)))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.client.SubmitOrder(c.Request.Context(), payload)
	if err != nil {
		s.metrics.RecordSubmission("admin", "failed", time.Since(start).Seconds())
		s.metrics.RecordError(string(shiprocket.ErrorKind(err)))
		s.logger.Error("Admin submission failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, carrierErrorBody(err))
		return
	}

	s.metrics.RecordSubmission("admin", "linked", time.Since(start).Seconds())
	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"carrier_order_id": result.CarrierOrderID,
		"shipment_id":      result.ShipmentID,
		"shiprocket":       result.Raw,
	})
}

// carrierErrorBody preserves the carrier's own status and body so operators
// see what the carrier said, not just that a call failed.
func carrierErrorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	var srErr *shiprocket.Error
	if errors.As(err, &srErr) {
		if srErr.StatusCode != 0 {
			body["carrier_status"] = srErr.StatusCode
		}
		if srErr.Body != "" {
			body["carrier_body"] = srErr.Body
		}
	}
	return body
}
