package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/pkg/httpclient"
)

// RatesProvider fetches the full exchange-rate table from an upstream source.
type RatesProvider interface {
	FetchRates(ctx context.Context) (domain.RateTable, error)
}

// HTTPRatesProvider fetches rates from an upstream HTTP endpoint that returns
// a JSON object mapping currency code to rate. The call goes through the
// shared circuit-breaker client so a flapping provider cannot stall reloads.
type HTTPRatesProvider struct {
	client *httpclient.CircuitBreakerClient
	url    string
	logger *slog.Logger
}

// NewHTTPRatesProvider creates a provider for the given rates URL.
func NewHTTPRatesProvider(client *httpclient.CircuitBreakerClient, url string, logger *slog.Logger) *HTTPRatesProvider {
	return &HTTPRatesProvider{client: client, url: url, logger: logger}
}

// FetchRates fetches and parses the upstream rate table. Rates are decoded
// from raw JSON numbers into decimals without a float round-trip.
func (p *HTTPRatesProvider) FetchRates(ctx context.Context) (domain.RateTable, error) {
	resp, err := p.client.Get(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "rates provider")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read rates response: %w", err)
	}

	var raw map[string]json.Number
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}

	rates := make(domain.RateTable, len(raw))
	for currency, value := range raw {
		rate, err := decimal.NewFromString(value.String())
		if err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %w", currency, err)
		}
		if rate.Sign() <= 0 {
			return nil, fmt.Errorf("invalid rate for %s: must be positive, got %s", currency, rate)
		}
		rates[currency] = rate
	}

	p.logger.DebugContext(ctx, "fetched upstream rates", slog.Int("currencies", len(rates)))
	return rates, nil
}
