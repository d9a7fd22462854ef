package domain

import "github.com/shopspring/decimal"

// PriceItem computes the unit and net price of one line item.
//
// Incomplete input — an empty or unknown product name, or a currency absent
// from the rate table — yields a zero PricedItem. That is a defined value for
// in-progress form state, not an error. Otherwise the unit price is the
// catalog base price converted into the requested currency, and the net price
// is unit price times quantity. No rounding is applied; presentation layers
// format for display.
func PriceItem(productName string, quantity float64, catalog Catalog, rates RateTable, currency string) PricedItem {
	if productName == "" {
		return PricedItem{UnitPrice: decimal.Zero, NetPrice: decimal.Zero}
	}

	basePrice, ok := catalog[productName]
	if !ok {
		return PricedItem{UnitPrice: decimal.Zero, NetPrice: decimal.Zero}
	}

	rate, ok := rates[currency]
	if !ok {
		return PricedItem{UnitPrice: decimal.Zero, NetPrice: decimal.Zero}
	}

	unitPrice := basePrice.Mul(rate)
	return PricedItem{
		UnitPrice: unitPrice,
		NetPrice:  unitPrice.Mul(decimal.NewFromFloat(quantity)),
	}
}

// TotalPrice sums the net prices of the given items in sequence order.
// An empty item list totals to zero.
func TotalPrice(items []DraftItem, catalog Catalog, rates RateTable, currency string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(PriceItem(item.ProductName, item.Quantity, catalog, rates, currency).NetPrice)
	}
	return total
}
