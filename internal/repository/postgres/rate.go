package postgres

import (
	"context"
	"fmt"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/pkg/database"
)

// RateRepository implements repository.RateRepository using PostgreSQL.
type RateRepository struct {
	pool database.DBTX
}

// NewRateRepository creates a new PostgreSQL-backed rate repository.
func NewRateRepository(pool database.DBTX) *RateRepository {
	return &RateRepository{pool: pool}
}

// LoadRates reads the whole exchange-rate table.
func (r *RateRepository) LoadRates(ctx context.Context) (domain.RateTable, error) {
	rows, err := r.pool.Query(ctx, `SELECT currency, rate::text FROM exchange_rates ORDER BY currency`)
	if err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}
	defer rows.Close()

	rates := make(domain.RateTable)
	for rows.Next() {
		var (
			currency string
			rate     string
		)
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("scan rate row: %w", err)
		}
		if rates[currency], err = parseDecimal(rate); err != nil {
			return nil, fmt.Errorf("currency %q: %w", currency, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate rows: %w", err)
	}

	return rates, nil
}

// ReplaceRates swaps the stored table for the given one atomically. The
// reference currency row is always kept at rate 1.0 even if the incoming
// table omits it.
func (r *RateRepository) ReplaceRates(ctx context.Context, rates domain.RateTable) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exchange_rates`); err != nil {
		return fmt.Errorf("clear exchange rates: %w", err)
	}

	upsert := `
		INSERT INTO exchange_rates (currency, rate, updated_at)
		VALUES ($1, $2, now())`

	if !rates.Has(domain.ReferenceCurrency) {
		if _, err := tx.Exec(ctx, upsert, domain.ReferenceCurrency, "1"); err != nil {
			return fmt.Errorf("insert reference currency: %w", err)
		}
	}

	for currency, rate := range rates {
		if _, err := tx.Exec(ctx, upsert, currency, rate.String()); err != nil {
			return fmt.Errorf("insert rate %s: %w", currency, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
