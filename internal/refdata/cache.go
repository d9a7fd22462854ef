package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/utafrali/OrderEntryGo/internal/domain"
)

const ratesCacheKey = "refdata:rates"

// CachedRatesProvider wraps a RatesProvider with a Redis cache so restarts
// and sibling instances do not hammer the upstream provider. Cache failures
// fall through to the inner provider.
type CachedRatesProvider struct {
	inner  RatesProvider
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRatesProvider creates a caching wrapper with the given TTL.
func NewCachedRatesProvider(inner RatesProvider, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedRatesProvider {
	return &CachedRatesProvider{inner: inner, client: client, ttl: ttl, logger: logger}
}

// FetchRates returns the cached table when present, otherwise fetches from
// the inner provider and caches the result.
func (c *CachedRatesProvider) FetchRates(ctx context.Context) (domain.RateTable, error) {
	cached, err := c.client.Get(ctx, ratesCacheKey).Bytes()
	if err == nil {
		rates, err := decodeRates(cached)
		if err == nil {
			c.logger.DebugContext(ctx, "rates cache hit", slog.Int("currencies", len(rates)))
			return rates, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt rates cache entry",
			slog.String("error", err.Error()))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "rates cache read failed",
			slog.String("error", err.Error()))
	}

	rates, err := c.inner.FetchRates(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := encodeRates(rates); err == nil {
		if err := c.client.Set(ctx, ratesCacheKey, encoded, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "rates cache write failed",
				slog.String("error", err.Error()))
		}
	}

	return rates, nil
}

// Invalidate drops the cached table, forcing the next fetch upstream.
func (c *CachedRatesProvider) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ratesCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate rates cache: %w", err)
	}
	return nil
}

// Rates are cached as a string map so decimals round-trip exactly.

func encodeRates(rates domain.RateTable) ([]byte, error) {
	m := make(map[string]string, len(rates))
	for currency, rate := range rates {
		m[currency] = rate.String()
	}
	return json.Marshal(m)
}

func decodeRates(data []byte) (domain.RateTable, error) {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	rates := make(domain.RateTable, len(m))
	for currency, value := range m {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("invalid cached rate for %s: %w", currency, err)
		}
		rates[currency] = rate
	}
	return rates, nil
}
