package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/pkg/database"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// LoadCatalog reads the whole product catalog. Base prices are in the
// reference currency.
func (r *ProductRepository) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, base_price::text FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	catalog := make(domain.Catalog)
	for rows.Next() {
		var (
			name  string
			price string
		)
		if err := rows.Scan(&name, &price); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		if catalog[name], err = parseDecimal(price); err != nil {
			return nil, fmt.Errorf("product %q: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return catalog, nil
}
