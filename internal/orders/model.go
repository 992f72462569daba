// Package orders adapts the externally-owned order store. The service only
// borrows a read view of an order and requests a narrow metadata patch; it
// never owns order storage.
package orders

import (
	"time"
)

// MetadataCarrierOrderID is the metadata key linking an order to its
// carrier-side counterpart. Its presence is the idempotency guard against
// duplicate carrier orders on event redelivery.
const MetadataCarrierOrderID = "shiprocket_order_id"

// Order is a read view of an order document, with its address and item
// relations embedded.
type Order struct {
	ID            string         `bson:"_id"`
	DisplayID     string         `bson:"display_id,omitempty"`
	Email         string         `bson:"email,omitempty"`
	PaymentStatus string         `bson:"payment_status,omitempty"`
	CreatedAt     time.Time      `bson:"created_at,omitempty"`
	Billing       *Address       `bson:"billing_address,omitempty"`
	Shipping      *Address       `bson:"shipping_address,omitempty"`
	Items         []Item         `bson:"items,omitempty"`
	SubTotal      *float64       `bson:"sub_total,omitempty"`
	Total         *float64       `bson:"total,omitempty"`
	Metadata      map[string]any `bson:"metadata,omitempty"`
}

// Address is an order billing or shipping address.
type Address struct {
	FirstName   string `bson:"first_name,omitempty"`
	LastName    string `bson:"last_name,omitempty"`
	Address1    string `bson:"address_1,omitempty"`
	Address2    string `bson:"address_2,omitempty"`
	City        string `bson:"city,omitempty"`
	PostalCode  string `bson:"postal_code,omitempty"`
	Province    string `bson:"province,omitempty"`
	CountryCode string `bson:"country_code,omitempty"`
	Email       string `bson:"email,omitempty"`
	Phone       string `bson:"phone,omitempty"`
}

// Item is one order line.
type Item struct {
	ID            string   `bson:"id,omitempty"`
	Title         string   `bson:"title,omitempty"`
	SKU           string   `bson:"sku,omitempty"`
	VariantID     string   `bson:"variant_id,omitempty"`
	Quantity      int      `bson:"quantity"`
	UnitPrice     *float64 `bson:"unit_price,omitempty"`
	TaxTotal      float64  `bson:"tax_total,omitempty"`
	DiscountTotal float64  `bson:"discount_total,omitempty"`
	HSN           string   `bson:"hsn,omitempty"`
}

// CarrierOrderID returns the linked carrier order identifier, or nil when
// the order has not been submitted yet.
func (o *Order) CarrierOrderID() any {
	if o.Metadata == nil {
		return nil
	}
	return o.Metadata[MetadataCarrierOrderID]
}
