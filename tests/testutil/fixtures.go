// Package testutil provides checkout fixtures and event helpers shared by the
// fulfillment test suites.
package testutil

import (
	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopspring/decimal"
)

// LineItem builds a checkout line. totalPrice is taken as given; discount may be "".
func LineItem(quantity int, unitPrice, totalPrice, discount string) fulfillmentapp.LineItemInput {
	item := fulfillmentapp.LineItemInput{
		ProductVariantID: uuid.New(),
		Quantity:         quantity,
		UnitPrice:        decimal.RequireFromString(unitPrice),
		TotalPrice:       decimal.RequireFromString(totalPrice),
	}
	if discount != "" {
		d := decimal.RequireFromString(discount)
		item.DiscountValue = &d
	}
	return item
}

// Checkout returns a checkout for a fresh buyer. With no items it uses two
// lines totalling 50.00 with a 5.00 discount on the first.
func Checkout(method string, items ...fulfillmentapp.LineItemInput) fulfillmentapp.CheckoutInput {
	if len(items) == 0 {
		items = []fulfillmentapp.LineItemInput{
			LineItem(2, "10.00", "20.00", "5.00"),
			LineItem(1, "30.00", "30.00", ""),
		}
	}
	return fulfillmentapp.CheckoutInput{
		BuyerID: uuid.New(),
		ShippingAddress: fulfillmentapp.AddressInput{
			Street:   "12 Harbour Road",
			District: "Central",
			Province: "Hong Kong Island",
			ZipCode:  "999077",
			Country:  "HK",
		},
		Items:         items,
		PaymentMethod: method,
	}
}
