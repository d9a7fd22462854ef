package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/internal/repository"
	apperrors "github.com/utafrali/OrderEntryGo/pkg/errors"
)

// Snapshot is an immutable view of the catalog and rate table, loaded
// wholesale. Readers hold a snapshot for the duration of one operation so
// pricing and validation see a consistent pair.
type Snapshot struct {
	Catalog    domain.Catalog
	Rates      domain.RateTable
	Generation uint64
	LoadedAt   time.Time
}

// Store holds the current reference-data snapshot and coordinates wholesale
// reloads. Overlapping reloads are fenced with a monotonic generation id:
// a reload that finishes after a newer one began is discarded, so the latest
// requested load always wins and a stale in-flight result can never clobber
// fresher data.
type Store struct {
	products repository.ProductRepository
	rates    repository.RateRepository
	provider RatesProvider // optional upstream source
	logger   *slog.Logger

	gen atomic.Uint64

	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates a store backed by the given repositories. provider may be
// nil, in which case rates come from the database only.
func NewStore(products repository.ProductRepository, rates repository.RateRepository, provider RatesProvider, logger *slog.Logger) *Store {
	return &Store{
		products: products,
		rates:    rates,
		provider: provider,
		logger:   logger,
	}
}

// Snapshot returns the current snapshot, or a service-unavailable error when
// no load has succeeded yet.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperrors.Unavailable("reference data not loaded yet")
	}
	return s.current, nil
}

// Loaded reports whether an initial load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Reload loads the catalog and rate table wholesale and installs them as a
// new snapshot. When an upstream provider is configured its rates are synced
// into the database first; provider failures degrade to the stored table
// rather than failing the reload.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	gen := s.gen.Add(1)

	if s.provider != nil {
		if upstream, err := s.provider.FetchRates(ctx); err != nil {
			s.logger.WarnContext(ctx, "upstream rates unavailable, using stored table",
				slog.String("error", err.Error()))
		} else if err := s.rates.ReplaceRates(ctx, upstream); err != nil {
			return nil, fmt.Errorf("sync upstream rates: %w", err)
		}
	}

	catalog, err := s.products.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload catalog: %w", err)
	}

	rates, err := s.rates.LoadRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload rates: %w", err)
	}

	// The reference currency is always priceable at identity.
	if !rates.Has(domain.ReferenceCurrency) {
		rates[domain.ReferenceCurrency] = decimal.NewFromInt(1)
	}

	snap := &Snapshot{
		Catalog:    catalog,
		Rates:      rates,
		Generation: gen,
		LoadedAt:   time.Now().UTC(),
	}

	return s.install(ctx, snap), nil
}

// install publishes snap unless a newer generation has already landed, in
// which case the newer snapshot is kept and returned.
func (s *Store) install(ctx context.Context, snap *Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Generation >= snap.Generation {
		s.logger.InfoContext(ctx, "discarding superseded reload",
			slog.Uint64("generation", snap.Generation),
			slog.Uint64("current_generation", s.current.Generation),
		)
		return s.current
	}

	s.current = snap
	s.logger.InfoContext(ctx, "reference data loaded",
		slog.Uint64("generation", snap.Generation),
		slog.Int("products", len(snap.Catalog)),
		slog.Int("currencies", len(snap.Rates)),
	)
	return snap
}

// CheckReady is a health checker: the service is not ready to take orders
// until an initial snapshot has loaded.
func (s *Store) CheckReady(ctx context.Context) error {
	if !s.Loaded() {
		return fmt.Errorf("reference data not loaded")
	}
	return nil
}
