package domain

import "github.com/shopspring/decimal"

// ReferenceCurrency is the currency catalog base prices are denominated in.
// The rate table always carries it with a rate of 1.0.
const ReferenceCurrency = "CAD"

// Catalog maps a product name to its base unit price in the reference
// currency. It is a read-only snapshot from the engine's point of view.
type Catalog map[string]decimal.Decimal

// Has reports whether the catalog carries the given product.
func (c Catalog) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// RateTable maps a currency code to its conversion rate relative to the
// reference currency. Codes outside the table are invalid currencies.
type RateTable map[string]decimal.Decimal

// Has reports whether the table carries the given currency code.
func (r RateTable) Has(code string) bool {
	_, ok := r[code]
	return ok
}

// Currencies returns the supported currency codes in unspecified order.
func (r RateTable) Currencies() []string {
	codes := make([]string, 0, len(r))
	for code := range r {
		codes = append(codes, code)
	}
	return codes
}
