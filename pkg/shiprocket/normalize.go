package shiprocket

import (
	"strconv"
	"strings"
	"time"
)

// orderDateFormat is the carrier-required timestamp layout, no timezone suffix.
const orderDateFormat = "2006-01-02 15:04:05"

// defaultDimensions are applied when the seller has no parcel dimensions on
// file; the carrier requires non-null dimensions.
var defaultDimensions = PackageDimensions{Length: 10, Breadth: 10, Height: 2, Weight: 0.5}

// Normalizer transforms an OrderView into the carrier's fixed order schema,
// applying configured defaults and fallback rules.
type Normalizer struct {
	// PickupLocation is the default pickup label; "Primary" when empty.
	PickupLocation string

	// HomeCountry is the ISO-2 country applied when an address carries none.
	HomeCountry string

	// ChannelID is the configured sales-channel identifier, injected only
	// when the view does not already carry one.
	ChannelID string

	// Now is swappable for tests; time.Now when nil.
	Now func() time.Time
}

// Payload builds an immutable carrier payload from the view.
// It fails with a validation error when the order id, an address, or the
// items are absent.
func (n *Normalizer) Payload(view *OrderView) (*OrderPayload, error) {
	if view == nil || view.OrderID == "" {
		return nil, NewError(KindValidation, "order id is required")
	}

	billing := view.Billing
	if billing == nil {
		billing = view.Shipping
	}
	if billing == nil {
		return nil, NewError(KindValidation, "a billing address is required")
	}

	if len(view.Items) == 0 {
		return nil, NewError(KindValidation, "at least one item is required")
	}

	shipping := view.Shipping
	shippingIsBilling := shipping == nil || *shipping == *billing

	p := &OrderPayload{
		OrderID:        view.OrderID,
		OrderDate:      n.orderDate(view),
		PickupLocation: n.pickupLocation(view),

		BillingCustomerName: billing.Name,
		BillingLastName:     billing.LastName,
		BillingAddress:      billing.Line1,
		BillingAddress2:     billing.Line2,
		BillingCity:         billing.City,
		BillingPincode:      billing.PostalCode,
		BillingState:        billing.Region,
		BillingCountry:      n.country(billing.CountryCode),
		BillingEmail:        firstNonEmpty(billing.Email, view.Email),
		BillingPhone:        billing.Phone,

		ShippingIsBilling: shippingIsBilling,

		OrderItems:    normalizeItems(view.Items),
		PaymentMethod: paymentMethod(view),
		SubTotal:      subtotal(view),
	}

	if p.BillingPhone == "" && shipping != nil {
		p.BillingPhone = shipping.Phone
	}

	if !shippingIsBilling {
		p.ShippingCustomerName = shipping.Name
		p.ShippingLastName = shipping.LastName
		p.ShippingAddress = shipping.Line1
		p.ShippingAddress2 = shipping.Line2
		p.ShippingCity = shipping.City
		p.ShippingPincode = shipping.PostalCode
		p.ShippingState = shipping.Region
		p.ShippingCountry = n.country(shipping.CountryCode)
	}

	dims := defaultDimensions
	if view.Dimensions != nil {
		dims = *view.Dimensions
	}
	p.Length = dims.Length
	p.Breadth = dims.Breadth
	p.Height = dims.Height
	p.Weight = dims.Weight

	p.ChannelID = n.channelID(view)

	return p, nil
}

func (n *Normalizer) orderDate(view *OrderView) string {
	if view.OrderDate != "" {
		return view.OrderDate
	}
	at := view.PlacedAt
	if at.IsZero() {
		at = n.nowFn()()
	}
	// UTC keeps the date stable across deployment timezones.
	return at.UTC().Format(orderDateFormat)
}

func (n *Normalizer) pickupLocation(view *OrderView) string {
	if view.PickupLocation != "" {
		return view.PickupLocation
	}
	if n.PickupLocation != "" {
		return n.PickupLocation
	}
	return "Primary"
}

func (n *Normalizer) country(code string) string {
	if code == "" {
		code = n.HomeCountry
	}
	if code == "" {
		code = "IN"
	}
	return strings.ToUpper(code)
}

// channelID returns the caller's channel identifier untouched, else the
// configured one coerced to a number when it parses as one.
func (n *Normalizer) channelID(view *OrderView) any {
	if view.ChannelID != nil {
		return view.ChannelID
	}
	if n.ChannelID == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(n.ChannelID, 64); err == nil {
		return f
	}
	return n.ChannelID
}

func (n *Normalizer) nowFn() func() time.Time {
	if n.Now != nil {
		return n.Now
	}
	return time.Now
}

func normalizeItems(items []ItemView) []PayloadItem {
	result := make([]PayloadItem, len(items))
	for i, it := range items {
		result[i] = PayloadItem{
			Name:         it.Name,
			SKU:          firstNonEmpty(it.SKU, it.VariantID, it.LineID),
			Units:        it.Quantity,
			SellingPrice: sellingPrice(it),
			Discount:     it.Discount,
			Tax:          it.Tax,
			HSN:          it.HSN,
		}
	}
	return result
}

// sellingPrice falls back through unit price, price, zero.
func sellingPrice(it ItemView) float64 {
	if it.UnitPrice != nil {
		return *it.UnitPrice
	}
	if it.Price != nil {
		return *it.Price
	}
	return 0
}

func paymentMethod(view *OrderView) string {
	if view.PaymentMethod != "" {
		return view.PaymentMethod
	}
	if view.PaymentCaptured {
		return "Prepaid"
	}
	return "COD"
}

// subtotal uses the source's value when supplied, else sums the items.
func subtotal(view *OrderView) float64 {
	if view.SubTotal != nil {
		return *view.SubTotal
	}
	var sum float64
	for _, it := range view.Items {
		sum += sellingPrice(it) * float64(it.Quantity)
	}
	return sum
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
