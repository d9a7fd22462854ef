package repository

import (
	"context"

	"github.com/utafrali/OrderEntryGo/internal/domain"
)

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	CustomerName *string
	Page         int
	PerPage      int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts a new order and its items into the store atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
}

// ProductRepository loads the product catalog.
type ProductRepository interface {
	// LoadCatalog returns the full product catalog in one read.
	LoadCatalog(ctx context.Context) (domain.Catalog, error)
}

// RateRepository loads the exchange-rate table.
type RateRepository interface {
	// LoadRates returns the full exchange-rate table in one read.
	LoadRates(ctx context.Context) (domain.RateTable, error)

	// ReplaceRates swaps the stored table for the given one atomically.
	ReplaceRates(ctx context.Context, rates domain.RateTable) error
}
