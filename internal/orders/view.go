package orders

import (
	"github.com/tournevent/fulfillment/pkg/shiprocket"
)

// View translates a stored order into the normalizer's intermediate
// representation.
func (o *Order) View() *shiprocket.OrderView {
	orderID := o.DisplayID
	if orderID == "" {
		orderID = o.ID
	}

	view := &shiprocket.OrderView{
		OrderID:         orderID,
		Email:           o.Email,
		PlacedAt:        o.CreatedAt,
		Billing:         addressView(o.Billing),
		Shipping:        addressView(o.Shipping),
		PaymentCaptured: o.PaymentStatus == "captured",

		// The order total includes shipping and tax; leaving SubTotal
		// unset makes the normalizer sum the items instead.
		SubTotal: o.SubTotal,
	}

	view.Items = make([]shiprocket.ItemView, len(o.Items))
	for i, it := range o.Items {
		view.Items[i] = shiprocket.ItemView{
			Name:      it.Title,
			SKU:       it.SKU,
			VariantID: it.VariantID,
			LineID:    it.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Tax:       it.TaxTotal,
			Discount:  it.DiscountTotal,
			HSN:       it.HSN,
		}
	}

	return view
}

func addressView(a *Address) *shiprocket.AddressView {
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
		Region:      a.Province,
		CountryCode: a.CountryCode,
		Email:       a.Email,
		Phone:       a.Phone,
	}
}
