package shiprocket

import (
	"time"
)

// OrderView is the intermediate order representation accepted by the
// Normalizer. Each inbound source (the order store, the admin HTTP body)
// translates its own shape into a view before normalization, so fallback
// rules live in one place.
type OrderView struct {
	// OrderID is the external order reference submitted to the carrier.
	OrderID string

	// Email is the order-level customer email, used when the billing
	// address carries none.
	Email string

	// PlacedAt is when the order was placed. Zero means "now".
	PlacedAt time.Time

	// OrderDate, when set, is passed to the carrier verbatim instead of
	// being derived from PlacedAt.
	OrderDate string

	// PickupLocation overrides the configured pickup location label.
	PickupLocation string

	Billing  *AddressView
	Shipping *AddressView
	Items    []ItemView

	// PaymentMethod, when set, is used literally ("Prepaid" or "COD").
	// Otherwise PaymentCaptured decides.
	PaymentMethod   string
	PaymentCaptured bool

	// SubTotal, when set, is used directly. Otherwise the subtotal is
	// computed from the items.
	SubTotal *float64

	// Dimensions, when set, override the default package dimensions.
	Dimensions *PackageDimensions

	// ChannelID, when set, suppresses injection of the configured
	// sales-channel identifier.
	ChannelID any
}

// AddressView is a billing or shipping address in source-neutral form.
type AddressView struct {
	Name        string
	LastName    string
	Line1       string
	Line2       string
	City        string
	PostalCode  string
	Region      string // province or state
	CountryCode string // ISO 3166-1 alpha-2
	Email       string
	Phone       string
}

// ItemView is one order line in source-neutral form.
type ItemView struct {
	Name      string
	SKU       string
	VariantID string
	LineID    string
	Quantity  int
	UnitPrice *float64
	Price     *float64
	Tax       float64
	Discount  float64
	HSN       string
}

// PackageDimensions describes the parcel in centimetres and kilograms.
type PackageDimensions struct {
	Length  float64
	Breadth float64
	Height  float64
	Weight  float64
}

// SubmissionResult is a read-only reflection of the carrier's response to
// an order submission.
type SubmissionResult struct {
	// CarrierOrderID is the first identifier found in the response among
	// order_id, shipment_id, id and data.order_id, in that order. It keeps
	// the carrier's own type (number or string).
	CarrierOrderID any

	// ShipmentID is the carrier shipment identifier, when present.
	ShipmentID any

	// Raw is the parsed response object, or the raw response text when the
	// body was not valid JSON.
	Raw any
}
