package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

func TestPairCatalogLookup(t *testing.T) {
	catalog := NewPairCatalogService()

	pair, err := catalog.Lookup("BTC-EUR")
	assert.NoError(t, err)
	assert.Equal(t, "BTC", pair.BaseSymbol)
	assert.Equal(t, "EUR", pair.QuoteSymbol)
	assert.Equal(t, 43250.00, pair.ReferencePrice)
	assert.Equal(t, 0.0001, pair.MinAmount)
	assert.Equal(t, 100.0, pair.MaxAmount)
	assert.Equal(t, 2, pair.PricePrecision)
	assert.Equal(t, 6, pair.AmountPrecision)
}

func TestPairCatalogLookupUnknownPair(t *testing.T) {
	catalog := NewPairCatalogService()

	_, err := catalog.Lookup("BTC-USD")
	assert.ErrorIs(t, err, ErrPairNotFound)
}

func TestPairCatalogKeepsInsertionOrder(t *testing.T) {
	catalog := NewPairCatalogService()

	pairs := catalog.Pairs()
	assert.Len(t, pairs, 6)
	assert.Equal(t, "BTC-EUR", pairs[0].ID)
	assert.Equal(t, "ETH-EUR", pairs[1].ID)
}

func TestPairCatalogIgnoresDuplicateIDs(t *testing.T) {
	catalog := NewPairCatalogServiceWithPairs([]models.TradingPair{
		models.NewTradingPair("BTC-EUR", "BTC", "EUR", 43250, 0, 0, 0.0001, 100, 2, 6),
		models.NewTradingPair("BTC-EUR", "BTC", "EUR", 1, 0, 0, 1, 1, 0, 0),
	})

	pair, err := catalog.Lookup("BTC-EUR")
	assert.NoError(t, err)
	assert.Equal(t, 43250.0, pair.ReferencePrice)
	assert.Len(t, catalog.Pairs(), 1)
}
