package refdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/OrderEntryGo/pkg/httpclient"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPRatesProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("rates-provider-test"),
		newTestLogger(),
	)

	return NewHTTPRatesProvider(client, srv.URL+"/rates", newTestLogger())
}

func TestHTTPRatesProvider_FetchRates(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"CAD": 1.0, "USD": 0.74, "EUR": 0.68}`))
	})

	rates, err := provider.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.True(t, rates["CAD"].Equal(decimal.NewFromInt(1)))
	assert.True(t, rates["USD"].Equal(decimal.RequireFromString("0.74")))
}

func TestHTTPRatesProvider_FetchRates_Non200(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := provider.FetchRates(context.Background())
	assert.Error(t, err)
}

func TestHTTPRatesProvider_FetchRates_MalformedBody(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"CAD": `))
	})

	_, err := provider.FetchRates(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode rates response")
}

func TestHTTPRatesProvider_FetchRates_RejectsNonPositiveRate(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"USD": 0}`))
	})

	_, err := provider.FetchRates(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

// --- Cache codec ---

func TestRatesCacheCodec_RoundTrip(t *testing.T) {
	in := sampleRates()

	encoded, err := encodeRates(in)
	require.NoError(t, err)

	out, err := decodeRates(encoded)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for currency, rate := range in {
		assert.True(t, out[currency].Equal(rate), "currency %s", currency)
	}
}

func TestRatesCacheCodec_RejectsCorruptPayload(t *testing.T) {
	_, err := decodeRates([]byte(`{"USD": "abc"}`))
	assert.Error(t, err)
}
