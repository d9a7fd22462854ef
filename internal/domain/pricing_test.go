package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCatalog() Catalog {
	return Catalog{
		"Widget":  decimal.NewFromInt(10),
		"Gadget":  decimal.RequireFromString("24.99"),
		"Doohick": decimal.RequireFromString("0.05"),
	}
}

func testRates() RateTable {
	return RateTable{
		"CAD": decimal.NewFromInt(1),
		"USD": decimal.NewFromInt(2),
		"EUR": decimal.RequireFromString("0.68"),
		"GBP": decimal.RequireFromString("0.58"),
	}
}

// --- PriceItem ---

func TestPriceItem_ConvertsAndMultiplies(t *testing.T) {
	got := PriceItem("Widget", 3, testCatalog(), testRates(), "USD")

	assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(20)),
		"unit price = base 10 * rate 2, got %s", got.UnitPrice)
	assert.True(t, got.NetPrice.Equal(decimal.NewFromInt(60)),
		"net price = unit 20 * qty 3, got %s", got.NetPrice)
}

func TestPriceItem_ReferenceCurrencyIsIdentity(t *testing.T) {
	got := PriceItem("Gadget", 2, testCatalog(), testRates(), "CAD")

	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("24.99")))
	assert.True(t, got.NetPrice.Equal(decimal.RequireFromString("49.98")))
}

func TestPriceItem_FailSoftZeros(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		currency string
	}{
		{"empty product name", "", "USD"},
		{"unknown product", "Sprocket", "USD"},
		{"unknown currency", "Widget", "JPY"},
		{"empty currency", "Widget", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceItem(tt.product, 5, testCatalog(), testRates(), tt.currency)
			assert.True(t, got.IsZero(), "expected zero PricedItem, got %+v", got)
		})
	}
}

func TestPriceItem_KeepsFullPrecision(t *testing.T) {
	// 0.05 * 0.68 * 3 = 0.102; no internal rounding to 2 decimal places.
	got := PriceItem("Doohick", 3, testCatalog(), testRates(), "EUR")
	assert.True(t, got.NetPrice.Equal(decimal.RequireFromString("0.102")),
		"got %s", got.NetPrice)
}

func TestPriceItem_PureAndIdempotent(t *testing.T) {
	catalog := testCatalog()
	rates := testRates()

	first := PriceItem("Widget", 7, catalog, rates, "EUR")
	second := PriceItem("Widget", 7, catalog, rates, "EUR")

	assert.True(t, first.UnitPrice.Equal(second.UnitPrice))
	assert.True(t, first.NetPrice.Equal(second.NetPrice))

	// Inputs must come back out untouched.
	assert.True(t, catalog["Widget"].Equal(decimal.NewFromInt(10)))
	assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.68")))
	assert.Len(t, catalog, 3)
	assert.Len(t, rates, 4)
}

// --- TotalPrice ---

func TestTotalPrice_SumsNetPrices(t *testing.T) {
	items := []DraftItem{
		{ProductName: "Widget", Quantity: 3}, // 10*2*3 = 60
		{ProductName: "Gadget", Quantity: 1}, // 24.99*2 = 49.98
	}

	got := TotalPrice(items, testCatalog(), testRates(), "USD")
	assert.True(t, got.Equal(decimal.RequireFromString("109.98")), "got %s", got)
}

func TestTotalPrice_EmptyItemsIsZero(t *testing.T) {
	got := TotalPrice(nil, testCatalog(), testRates(), "USD")
	assert.True(t, got.IsZero())
}

func TestTotalPrice_SkipsIncompleteLines(t *testing.T) {
	items := []DraftItem{
		{ProductName: "Widget", Quantity: 3},
		{ProductName: "", Quantity: 5}, // zero-priced, not an error
	}

	got := TotalPrice(items, testCatalog(), testRates(), "USD")
	assert.True(t, got.Equal(decimal.NewFromInt(60)), "got %s", got)
}

func TestTotalPrice_OrderIndependentSum(t *testing.T) {
	forward := []DraftItem{
		{ProductName: "Widget", Quantity: 2},
		{ProductName: "Gadget", Quantity: 4},
	}
	backward := []DraftItem{
		{ProductName: "Gadget", Quantity: 4},
		{ProductName: "Widget", Quantity: 2},
	}

	a := TotalPrice(forward, testCatalog(), testRates(), "EUR")
	b := TotalPrice(backward, testCatalog(), testRates(), "EUR")
	assert.True(t, a.Equal(b))
}
