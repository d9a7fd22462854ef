package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/internal/repository"
	"github.com/utafrali/OrderEntryGo/pkg/database"
	apperrors "github.com/utafrali/OrderEntryGo/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, customer_name, currency, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.CustomerName,
		o.Currency,
		o.TotalPrice.String(),
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_name, quantity, unit_price, net_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			i,
			item.ProductName,
			item.Quantity,
			item.UnitPrice.String(),
			item.NetPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its items. Items are
// aggregated in a single query; the NUMERIC columns are rendered as text so
// the decimal values round-trip exactly.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orderQuery := `
		SELECT
			o.id, o.customer_name, o.currency, o.total_price::text, o.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'product_name', oi.product_name,
						'quantity', oi.quantity,
						'unit_price', oi.unit_price::text,
						'net_price', oi.net_price::text
					) ORDER BY oi.position
				) FILTER (WHERE oi.order_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id, o.customer_name, o.currency, o.total_price, o.created_at`

	var (
		o          domain.Order
		totalPrice string
		itemsJSON  []byte
	)

	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&o.ID,
		&o.CustomerName,
		&o.Currency,
		&totalPrice,
		&o.CreatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if o.TotalPrice, err = parseDecimal(totalPrice); err != nil {
		return nil, fmt.Errorf("parse total price: %w", err)
	}

	o.Items = []domain.OrderItem{}
	if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}

	return &o, nil
}

// List returns orders matching the given filter with the total count.
// Items are not loaded for listings.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.CustomerName != nil {
		conditions = append(conditions, fmt.Sprintf("customer_name ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.CustomerName+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() yields the total count without a second query.
	query := fmt.Sprintf(`
		SELECT id, customer_name, currency, total_price::text, created_at,
			   count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		orders     []domain.Order
		totalCount int
	)

	for rows.Next() {
		var (
			o          domain.Order
			totalPrice string
		)
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Currency, &totalPrice, &o.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		if o.TotalPrice, err = parseDecimal(totalPrice); err != nil {
			return nil, 0, fmt.Errorf("parse total price: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}
