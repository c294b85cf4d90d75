package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

// priceFloor keeps the random walk strictly positive.
const priceFloor = 0.00000001

// subscriberBuffer is the per-subscriber channel depth. A slow consumer
// drops ticks instead of stalling the feed.
const subscriberBuffer = 16

// seriesWindow caps the per-pair candle history. Session high/low are
// tracked as running scalars, so the series only has to cover charting.
const seriesWindow = 256

// QuoteSubscription is one consumer's stream of quote updates for a single
// pair. Unsubscribe stops delivery and may be called at most once.
type QuoteSubscription struct {
	C      <-chan models.MarketQuote
	id     int
	pairID string
	ch     chan models.MarketQuote
	feed   *PriceFeedService
}

func (sub *QuoteSubscription) Unsubscribe() {
	sub.feed.unsubscribe(sub.id)
}

// PriceFeedService drives every catalog pair through a bounded random walk
// on a shared timer. All pairs advance as one atomic batch per tick and all
// subscribers are fed from the same tick loop and the same random sequence.
type PriceFeedService struct {
	pairs    []models.TradingPair
	delta    float64
	interval time.Duration
	rng      *rand.Rand

	quotes map[string]*models.MarketQuote
	series map[string]*techan.TimeSeries

	subscribers map[int]*QuoteSubscription
	nextSubID   int

	timer   *time.Ticker
	stopCh  chan struct{}
	running bool
	mu      sync.Mutex
}

// NewPriceFeedService validates the walk configuration up front: a
// negative delta, a delta that could drive prices non-positive, a
// non-positive interval or an empty pair set are construction errors,
// never silently clamped.
func NewPriceFeedService(pairs []models.TradingPair, delta float64, interval time.Duration, rng *rand.Rand) (*PriceFeedService, error) {
	if delta < 0 {
		return nil, fmt.Errorf("%w: tick delta must not be negative, got %f", ErrInvalidParameter, delta)
	}
	if delta >= 1 {
		return nil, fmt.Errorf("%w: tick delta %f would allow non-positive prices", ErrInvalidParameter, delta)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: tick interval must be positive, got %s", ErrInvalidParameter, interval)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: at least one trading pair is required", ErrInvalidParameter)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	feed := &PriceFeedService{
		pairs:       pairs,
		delta:       delta,
		interval:    interval,
		rng:         rng,
		quotes:      make(map[string]*models.MarketQuote, len(pairs)),
		series:      make(map[string]*techan.TimeSeries, len(pairs)),
		subscribers: make(map[int]*QuoteSubscription),
	}

	now := time.Now()
	for _, pair := range pairs {
		feed.quotes[pair.ID] = &models.MarketQuote{
			PairID:    pair.ID,
			Price:     pair.ReferencePrice,
			High:      pair.ReferencePrice,
			Low:       pair.ReferencePrice,
			ChangePct: pair.Change24hPct,
			UpdatedAt: now,
		}
		feed.series[pair.ID] = techan.NewTimeSeries()
	}

	return feed, nil
}

// Start launches the tick loop. Calling Start on a running feed is a no-op.
func (feed *PriceFeedService) Start() {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if feed.running {
		return
	}
	feed.running = true
	feed.timer = time.NewTicker(feed.interval)
	feed.stopCh = make(chan struct{})
	go feed.loop(feed.timer, feed.stopCh)
	helpers.Logger.Infoln(fmt.Sprintf("price feed started, %d pairs every %s", len(feed.pairs), feed.interval))
}

// Stop cancels the timer. Idempotent: stopping a stopped feed is a no-op.
func (feed *PriceFeedService) Stop() {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if !feed.running {
		return
	}
	feed.running = false
	feed.timer.Stop()
	close(feed.stopCh)
	helpers.Logger.Infoln("price feed stopped")
}

func (feed *PriceFeedService) loop(timer *time.Ticker, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case now := <-timer.C:
			feed.tick(now)
		}
	}
}

// tick advances every pair once and publishes the batch. Prices are all
// computed and applied before any subscriber is notified, so no consumer
// can see a partially updated world.
func (feed *PriceFeedService) tick(now time.Time) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	batch := make([]models.MarketQuote, 0, len(feed.pairs))
	for _, pair := range feed.pairs {
		quote := feed.quotes[pair.ID]
		previous := quote.Price

		jitter := (feed.rng.Float64()*2 - 1) * feed.delta
		price := helpers.ClampFloor(previous*(1+jitter), priceFloor)

		quote.Price = price
		quote.UpdatedAt = now
		quote.ChangePct = pair.Change24hPct + (price/pair.ReferencePrice-1)*100
		if price > quote.High {
			quote.High = price
		}
		if price < quote.Low {
			quote.Low = price
		}

		feed.recordCandle(pair.ID, previous, price, now)

		batch = append(batch, *quote)
	}

	for _, quote := range batch {
		for _, sub := range feed.subscribers {
			if sub.pairID != quote.PairID {
				continue
			}
			select {
			case sub.ch <- quote:
			default:
				// subscriber is not keeping up, drop the tick
			}
		}
	}
}

func (feed *PriceFeedService) recordCandle(pairID string, open float64, close float64, now time.Time) {
	period := techan.NewTimePeriod(now, feed.interval)
	candle := techan.NewCandle(period)
	candle.OpenPrice = big.NewDecimal(open)
	candle.ClosePrice = big.NewDecimal(close)
	if open > close {
		candle.MaxPrice = big.NewDecimal(open)
		candle.MinPrice = big.NewDecimal(close)
	} else {
		candle.MaxPrice = big.NewDecimal(close)
		candle.MinPrice = big.NewDecimal(open)
	}
	candle.Volume = big.NewDecimal(0)

	series := feed.series[pairID]
	series.AddCandle(candle)
	if len(series.Candles) > seriesWindow {
		series.Candles = series.Candles[len(series.Candles)-seriesWindow:]
	}
}

// Subscribe registers a consumer for one pair's quote stream.
func (feed *PriceFeedService) Subscribe(pairID string) (*QuoteSubscription, error) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	if _, ok := feed.quotes[pairID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPairNotFound, pairID)
	}

	ch := make(chan models.MarketQuote, subscriberBuffer)
	sub := &QuoteSubscription{
		C:      ch,
		id:     feed.nextSubID,
		pairID: pairID,
		ch:     ch,
		feed:   feed,
	}
	feed.subscribers[sub.id] = sub
	feed.nextSubID++
	return sub, nil
}

func (feed *PriceFeedService) unsubscribe(id int) {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	sub, ok := feed.subscribers[id]
	if !ok {
		return
	}
	delete(feed.subscribers, id)
	close(sub.ch)
}

// Quote returns a copy of the current quote for the given pair.
func (feed *PriceFeedService) Quote(pairID string) (models.MarketQuote, bool) {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	quote, ok := feed.quotes[pairID]
	if !ok {
		return models.MarketQuote{}, false
	}
	return *quote, true
}

// Quotes returns a copy of every pair's current quote, keyed by pair id.
func (feed *PriceFeedService) Quotes() map[string]models.MarketQuote {
	feed.mu.Lock()
	defer feed.mu.Unlock()
	quotes := make(map[string]models.MarketQuote, len(feed.quotes))
	for id, quote := range feed.quotes {
		quotes[id] = *quote
	}
	return quotes
}

// RecentCloses returns up to n closing prices for the given pair, oldest
// first, from the capped candle window.
func (feed *PriceFeedService) RecentCloses(pairID string, n int) []float64 {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	series, ok := feed.series[pairID]
	if !ok || n <= 0 {
		return nil
	}

	candles := series.Candles
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	closes := make([]float64, 0, len(candles))
	for _, candle := range candles {
		closes = append(closes, candle.ClosePrice.Float())
	}
	return closes
}
