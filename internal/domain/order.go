package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftItem is one line of an order as entered into the form. Quantity is
// kept as a raw number so non-integer input is caught by validation instead
// of being silently truncated during decoding.
type DraftItem struct {
	ProductName string
	Quantity    float64
}

// DraftOrder is the client-side order state submitted for validation and
// pricing. It is a value; the engine never mutates it.
type DraftOrder struct {
	CustomerName string
	Currency     string
	Items        []DraftItem
}

// PricedItem is the derived price of a single line item. It is recomputed
// whenever inputs change and never persisted on its own.
type PricedItem struct {
	UnitPrice decimal.Decimal `json:"unit_price"`
	NetPrice  decimal.Decimal `json:"net_price"`
}

// IsZero reports whether the item priced to zero, which is the fail-soft
// result for incomplete input.
func (p PricedItem) IsZero() bool {
	return p.UnitPrice.IsZero() && p.NetPrice.IsZero()
}

// OrderItem is a persisted order line with its price fixed at creation time.
type OrderItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	NetPrice    decimal.Decimal `json:"net_price"`
}

// Order is an accepted, persisted order.
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	Currency     string          `json:"currency"`
	Items        []OrderItem     `json:"items"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TotalQuantity returns the sum of line quantities.
func (o Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
