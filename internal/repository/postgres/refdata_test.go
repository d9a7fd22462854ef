package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/pkg/database"
)

// --- ProductRepository ---

func TestProductRepository_LoadCatalog(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)

	rows := pgxmock.NewRows([]string{"name", "base_price"}).
		AddRow("Gadget", "24.99").
		AddRow("Widget", "10")

	mock.ExpectQuery("SELECT name, base_price").WillReturnRows(rows)

	catalog, err := repo.LoadCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.True(t, catalog["Widget"].Equal(decimal.NewFromInt(10)))
	assert.True(t, catalog["Gadget"].Equal(decimal.RequireFromString("24.99")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_LoadCatalog_QueryError(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT name, base_price").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.LoadCatalog(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestProductRepository_LoadCatalog_BadNumeric(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)

	rows := pgxmock.NewRows([]string{"name", "base_price"}).
		AddRow("Widget", "not-a-number")

	mock.ExpectQuery("SELECT name, base_price").WillReturnRows(rows)

	_, err = repo.LoadCatalog(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Widget")
}

// --- RateRepository ---

func TestRateRepository_LoadRates(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewRateRepository(mock)

	rows := pgxmock.NewRows([]string{"currency", "rate"}).
		AddRow("CAD", "1").
		AddRow("EUR", "0.68").
		AddRow("USD", "0.74")

	mock.ExpectQuery("SELECT currency, rate").WillReturnRows(rows)

	rates, err := repo.LoadRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.True(t, rates["CAD"].Equal(decimal.NewFromInt(1)))
	assert.True(t, rates["EUR"].Equal(decimal.RequireFromString("0.68")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_ReplaceRates(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewRateRepository(mock)

	rates := domain.RateTable{
		"CAD": decimal.NewFromInt(1),
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM exchange_rates").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("INSERT INTO exchange_rates").
		WithArgs("CAD", "1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.ReplaceRates(context.Background(), rates)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_ReplaceRates_AddsReferenceCurrency(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewRateRepository(mock)

	rates := domain.RateTable{
		"USD": decimal.RequireFromString("0.74"),
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM exchange_rates").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO exchange_rates").
		WithArgs(domain.ReferenceCurrency, "1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO exchange_rates").
		WithArgs("USD", "0.74").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.ReplaceRates(context.Background(), rates)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRepository_ReplaceRates_DeleteError(t *testing.T) {
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewRateRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM exchange_rates").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err = repo.ReplaceRates(context.Background(), domain.RateTable{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "clear exchange rates")
}
