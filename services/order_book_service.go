package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sdcoffey/big"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

const (
	// DefaultBookDepth is the number of synthetic levels per book side.
	DefaultBookDepth = 8
	// DefaultTradeCount is the length of the synthetic trades tape.
	DefaultTradeCount = 15
	// DefaultTickFraction is the relative price step between ladder levels.
	DefaultTickFraction = 0.001

	// tradeStep spaces the tape timestamps, newest first.
	tradeStep = 30 * time.Second
	// tradeJitter bounds the tape price around the reference (0.01%).
	tradeJitter = 0.0001

	// Level amounts are drawn from U(minLevelAmount, minLevelAmount+levelAmountSpan).
	minLevelAmount  = 0.1
	levelAmountSpan = 5.0
)

// OrderBookService derives a synthetic bid/ask ladder and a recent-trades
// tape from the simulator's reference price. Output is regenerated
// wholesale on every call, never diffed, so the book can never be crossed
// or stale.
type OrderBookService struct {
	depth        int
	tradeCount   int
	tickFraction float64
	rng          *rand.Rand
	mu           sync.Mutex
}

func NewOrderBookService(depth int, tradeCount int, tickFraction float64, rng *rand.Rand) (*OrderBookService, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: book depth must be positive, got %d", ErrInvalidParameter, depth)
	}
	if tradeCount <= 0 {
		return nil, fmt.Errorf("%w: trade count must be positive, got %d", ErrInvalidParameter, tradeCount)
	}
	if tickFraction <= 0 {
		return nil, fmt.Errorf("%w: tick fraction must be positive, got %f", ErrInvalidParameter, tickFraction)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &OrderBookService{
		depth:        depth,
		tradeCount:   tradeCount,
		tickFraction: tickFraction,
		rng:          rng,
	}, nil
}

// Snapshot builds the full ladder around the reference price. Bids walk
// down from the reference, asks walk up, one tick fraction per level.
func (obs *OrderBookService) Snapshot(pair models.TradingPair, referencePrice float64, now time.Time) (models.OrderBookSnapshot, error) {
	if referencePrice <= 0 {
		return models.OrderBookSnapshot{}, fmt.Errorf("%w: reference price must be positive, got %f", ErrInvalidParameter, referencePrice)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()

	snapshot := models.OrderBookSnapshot{
		PairID:      pair.ID,
		Bids:        make([]models.OrderBookLevel, 0, obs.depth),
		Asks:        make([]models.OrderBookLevel, 0, obs.depth),
		GeneratedAt: now,
	}

	step := referencePrice * obs.tickFraction
	for i := 1; i <= obs.depth; i++ {
		bidPrice := helpers.ClampFloor(referencePrice-float64(i)*step, priceFloor)
		askPrice := referencePrice + float64(i)*step

		snapshot.Bids = append(snapshot.Bids, obs.level(pair, bidPrice))
		snapshot.Asks = append(snapshot.Asks, obs.level(pair, askPrice))
	}

	return snapshot, nil
}

func (obs *OrderBookService) level(pair models.TradingPair, price float64) models.OrderBookLevel {
	amount := minLevelAmount + obs.rng.Float64()*levelAmountSpan
	total := big.NewDecimal(price).Mul(big.NewDecimal(amount))
	return models.OrderBookLevel{
		Price:  pair.FormatPrice(price),
		Amount: pair.FormatAmount(amount),
		Total:  total.FormattedString(pair.PricePrecision),
	}
}

// RecentTrades builds the synthetic tape: timestamps strictly decreasing
// from now in fixed steps, prices jittered around the reference, random
// amounts and sides.
func (obs *OrderBookService) RecentTrades(pair models.TradingPair, referencePrice float64, now time.Time) ([]models.RecentTrade, error) {
	if referencePrice <= 0 {
		return nil, fmt.Errorf("%w: reference price must be positive, got %f", ErrInvalidParameter, referencePrice)
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()

	trades := make([]models.RecentTrade, 0, obs.tradeCount)
	for i := 0; i < obs.tradeCount; i++ {
		jitter := (obs.rng.Float64()*2 - 1) * tradeJitter
		price := referencePrice * (1 + jitter)
		amount := minLevelAmount + obs.rng.Float64()*levelAmountSpan

		side := models.SideTypeBuy
		if obs.rng.Intn(2) == 1 {
			side = models.SideTypeSell
		}

		trades = append(trades, models.RecentTrade{
			Time:   now.Add(-time.Duration(i) * tradeStep),
			Price:  pair.FormatPrice(price),
			Amount: pair.FormatAmount(amount),
			Side:   side,
		})
	}

	return trades, nil
}
