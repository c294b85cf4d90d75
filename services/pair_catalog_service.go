package services

import (
	"fmt"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

// PairCatalogService is the read-only lookup table of tradeable
// instruments. The default catalog mirrors the platform's EUR markets.
type PairCatalogService struct {
	pairs map[string]models.TradingPair
	order []string
}

func NewPairCatalogService() *PairCatalogService {
	return NewPairCatalogServiceWithPairs(DefaultPairs())
}

func NewPairCatalogServiceWithPairs(pairs []models.TradingPair) *PairCatalogService {
	catalog := &PairCatalogService{
		pairs: make(map[string]models.TradingPair, len(pairs)),
	}
	for _, pair := range pairs {
		if _, exists := catalog.pairs[pair.ID]; exists {
			continue
		}
		catalog.pairs[pair.ID] = pair
		catalog.order = append(catalog.order, pair.ID)
	}
	return catalog
}

// Lookup returns the pair for the given id.
func (catalog *PairCatalogService) Lookup(id string) (models.TradingPair, error) {
	pair, ok := catalog.pairs[id]
	if !ok {
		return models.TradingPair{}, fmt.Errorf("%w: %s", ErrPairNotFound, id)
	}
	return pair, nil
}

// Pairs returns all pairs in catalog order.
func (catalog *PairCatalogService) Pairs() []models.TradingPair {
	pairs := make([]models.TradingPair, 0, len(catalog.order))
	for _, id := range catalog.order {
		pairs = append(pairs, catalog.pairs[id])
	}
	return pairs
}

// DefaultPairs returns the built-in instrument set.
func DefaultPairs() []models.TradingPair {
	return []models.TradingPair{
		models.NewTradingPair("BTC-EUR", "BTC", "EUR", 43250.00, 2.34, 28540000000, 0.0001, 100, 2, 6),
		models.NewTradingPair("ETH-EUR", "ETH", "EUR", 2285.50, -1.12, 15230000000, 0.001, 1000, 2, 5),
		models.NewTradingPair("SOL-EUR", "SOL", "EUR", 98.75, 5.67, 3420000000, 0.01, 10000, 2, 4),
		models.NewTradingPair("XRP-EUR", "XRP", "EUR", 0.5234, 0.89, 1890000000, 1, 1000000, 4, 2),
		models.NewTradingPair("ADA-EUR", "ADA", "EUR", 0.4456, -2.45, 890000000, 1, 1000000, 4, 2),
		models.NewTradingPair("DOGE-EUR", "DOGE", "EUR", 0.0823, 3.21, 1240000000, 10, 10000000, 5, 1),
	}
}
