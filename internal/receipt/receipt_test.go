package receipt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/OrderEntryGo/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:           "7d4f3c0a-9a3e-4b1f-8a2d-1c5e6f7a8b9c",
		CustomerName: "Jane Doe",
		Currency:     "USD",
		TotalPrice:   decimal.RequireFromString("109.98"),
		CreatedAt:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ProductName: "Widget", Quantity: 3, UnitPrice: decimal.NewFromInt(20), NetPrice: decimal.NewFromInt(60)},
			{ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("49.98"), NetPrice: decimal.RequireFromString("49.98")},
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer("Acme Storefront")

	pdf, err := r.Render(sampleOrder())
	require.NoError(t, err)
	require.NotEmpty(t, pdf)

	// A valid PDF starts with the %PDF header.
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderer_Render_EmptyItems(t *testing.T) {
	r := NewRenderer("")

	order := sampleOrder()
	order.Items = nil
	order.TotalPrice = decimal.Zero

	pdf, err := r.Render(order)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestRenderer_Render_Deterministic(t *testing.T) {
	r := NewRenderer("Acme Storefront")

	first, err := r.Render(sampleOrder())
	require.NoError(t, err)
	second, err := r.Render(sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
}
