package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// parseDecimal converts a NUMERIC column rendered as text back into a decimal.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return d, nil
}
