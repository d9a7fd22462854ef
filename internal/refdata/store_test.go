package refdata

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	apperrors "github.com/utafrali/OrderEntryGo/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mocks ---

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.(domain.Catalog), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRateRepo struct {
	mock.Mock
}

func (m *mockRateRepo) LoadRates(ctx context.Context) (domain.RateTable, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(domain.RateTable), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRateRepo) ReplaceRates(ctx context.Context, rates domain.RateTable) error {
	return m.Called(ctx, rates).Error(0)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) FetchRates(ctx context.Context) (domain.RateTable, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(domain.RateTable), args.Error(1)
	}
	return nil, args.Error(1)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{"Widget": decimal.NewFromInt(10)}
}

func sampleRates() domain.RateTable {
	return domain.RateTable{
		"CAD": decimal.NewFromInt(1),
		"USD": decimal.RequireFromString("0.74"),
	}
}

// --- Snapshot access ---

func TestStore_Snapshot_BeforeLoad(t *testing.T) {
	store := NewStore(&mockProductRepo{}, &mockRateRepo{}, nil, newTestLogger())

	snap, err := store.Snapshot()
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.False(t, store.Loaded())
	assert.Error(t, store.CheckReady(context.Background()))
}

func TestStore_Reload_Success(t *testing.T) {
	products := &mockProductRepo{}
	rates := &mockRateRepo{}
	products.On("LoadCatalog", mock.Anything).Return(sampleCatalog(), nil)
	rates.On("LoadRates", mock.Anything).Return(sampleRates(), nil)

	store := NewStore(products, rates, nil, newTestLogger())

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.True(t, snap.Catalog["Widget"].Equal(decimal.NewFromInt(10)))
	assert.True(t, store.Loaded())
	assert.NoError(t, store.CheckReady(context.Background()))

	got, err := store.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestStore_Reload_AddsReferenceCurrency(t *testing.T) {
	products := &mockProductRepo{}
	rates := &mockRateRepo{}
	products.On("LoadCatalog", mock.Anything).Return(sampleCatalog(), nil)
	rates.On("LoadRates", mock.Anything).
		Return(domain.RateTable{"USD": decimal.RequireFromString("0.74")}, nil)

	store := NewStore(products, rates, nil, newTestLogger())

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Rates[domain.ReferenceCurrency].Equal(decimal.NewFromInt(1)))
}

func TestStore_Reload_CatalogError(t *testing.T) {
	products := &mockProductRepo{}
	rates := &mockRateRepo{}
	products.On("LoadCatalog", mock.Anything).Return(nil, errors.New("connection refused"))

	store := NewStore(products, rates, nil, newTestLogger())

	_, err := store.Reload(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reload catalog")
	assert.False(t, store.Loaded())
}

// --- Upstream provider ---

func TestStore_Reload_SyncsUpstreamRates(t *testing.T) {
	products := &mockProductRepo{}
	rates := &mockRateRepo{}
	provider := &mockProvider{}

	upstream := domain.RateTable{"EUR": decimal.RequireFromString("0.68")}
	provider.On("FetchRates", mock.Anything).Return(upstream, nil)
	rates.On("ReplaceRates", mock.Anything, upstream).Return(nil)
	products.On("LoadCatalog", mock.Anything).Return(sampleCatalog(), nil)
	rates.On("LoadRates", mock.Anything).Return(sampleRates(), nil)

	store := NewStore(products, rates, provider, newTestLogger())

	_, err := store.Reload(context.Background())
	require.NoError(t, err)
	rates.AssertCalled(t, "ReplaceRates", mock.Anything, upstream)
}

func TestStore_Reload_ProviderFailureFallsBackToStoredRates(t *testing.T) {
	products := &mockProductRepo{}
	rates := &mockRateRepo{}
	provider := &mockProvider{}

	provider.On("FetchRates", mock.Anything).Return(nil, errors.New("upstream down"))
	products.On("LoadCatalog", mock.Anything).Return(sampleCatalog(), nil)
	rates.On("LoadRates", mock.Anything).Return(sampleRates(), nil)

	store := NewStore(products, rates, provider, newTestLogger())

	snap, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Rates["USD"].Equal(decimal.RequireFromString("0.74")))
	rates.AssertNotCalled(t, "ReplaceRates", mock.Anything, mock.Anything)
}

// --- Generation fencing ---

func TestStore_Install_DiscardsSupersededSnapshot(t *testing.T) {
	store := NewStore(&mockProductRepo{}, &mockRateRepo{}, nil, newTestLogger())

	newer := &Snapshot{Generation: 2, Catalog: sampleCatalog(), Rates: sampleRates()}
	stale := &Snapshot{Generation: 1, Catalog: domain.Catalog{}, Rates: domain.RateTable{}}

	installed := store.install(context.Background(), newer)
	assert.Same(t, newer, installed)

	// The stale result lands late and must be discarded.
	kept := store.install(context.Background(), stale)
	assert.Same(t, newer, kept)

	current, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), current.Generation)
}

func TestStore_Reload_OverlappingLatestWins(t *testing.T) {
	products := &mockProductRepo{}
	rates := &mockRateRepo{}

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	slowCatalog := domain.Catalog{"Stale": decimal.NewFromInt(1)}
	fastCatalog := domain.Catalog{"Fresh": decimal.NewFromInt(2)}

	// The first reload blocks in LoadCatalog until released; the second
	// completes while the first is still in flight.
	products.On("LoadCatalog", mock.Anything).Return(slowCatalog, nil).Once().
		Run(func(mock.Arguments) {
			close(firstStarted)
			<-releaseFirst
		})
	products.On("LoadCatalog", mock.Anything).Return(fastCatalog, nil).Once()
	rates.On("LoadRates", mock.Anything).Return(sampleRates(), nil)

	store := NewStore(products, rates, nil, newTestLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = store.Reload(context.Background())
	}()

	<-firstStarted
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	close(releaseFirst)
	wg.Wait()

	snap, err := store.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap.Generation)
	assert.True(t, snap.Catalog.Has("Fresh"), "stale reload must not clobber the newer snapshot")

	// Give the discarded install a moment; the snapshot must be unchanged.
	time.Sleep(10 * time.Millisecond)
	snap, _ = store.Snapshot()
	assert.True(t, snap.Catalog.Has("Fresh"))
}
