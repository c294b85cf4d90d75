package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

func feedTestPairs() []models.TradingPair {
	return []models.TradingPair{
		models.NewTradingPair("BTC-EUR", "BTC", "EUR", 43250.00, 2.34, 28540000000, 0.0001, 100, 2, 6),
		models.NewTradingPair("ETH-EUR", "ETH", "EUR", 2285.50, -1.12, 15230000000, 0.001, 1000, 2, 5),
	}
}

func TestPriceFeedRejectsBadConfiguration(t *testing.T) {
	pairs := feedTestPairs()
	rng := rand.New(rand.NewSource(1))

	_, err := NewPriceFeedService(pairs, -0.01, time.Second, rng)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewPriceFeedService(pairs, 1.0, time.Second, rng)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewPriceFeedService(pairs, 0.002, 0, rng)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewPriceFeedService(nil, 0.002, time.Second, rng)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestPriceFeedTickFollowsSeededWalk(t *testing.T) {
	pairs := feedTestPairs()
	delta := 0.002
	feed, err := NewPriceFeedService(pairs, delta, time.Second, rand.New(rand.NewSource(7)))
	assert.NoError(t, err)

	// replay the shared random sequence: one draw per pair per tick,
	// in catalog order
	expectedRng := rand.New(rand.NewSource(7))
	expected := map[string]float64{}
	for _, pair := range pairs {
		jitter := (expectedRng.Float64()*2 - 1) * delta
		expected[pair.ID] = pair.ReferencePrice * (1 + jitter)
	}

	feed.tick(time.Unix(1700000000, 0))

	for _, pair := range pairs {
		quote, ok := feed.Quote(pair.ID)
		assert.True(t, ok)
		assert.Equal(t, expected[pair.ID], quote.Price)
	}
}

func TestPriceFeedTickUpdatesAllPairsAtomically(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, time.Second, rand.New(rand.NewSource(3)))
	assert.NoError(t, err)

	tickTime := time.Unix(1700000000, 0)
	feed.tick(tickTime)

	for id, quote := range feed.Quotes() {
		assert.Equal(t, tickTime, quote.UpdatedAt, "pair %s saw a different tick time", id)
	}
}

func TestPriceFeedHighLowBracketPrice(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.01, time.Second, rand.New(rand.NewSource(11)))
	assert.NoError(t, err)

	start := time.Unix(1700000000, 0)
	for i := 0; i < 25; i++ {
		feed.tick(start.Add(time.Duration(i) * time.Second))
	}

	quote, ok := feed.Quote("BTC-EUR")
	assert.True(t, ok)
	assert.GreaterOrEqual(t, quote.High, quote.Price)
	assert.LessOrEqual(t, quote.Low, quote.Price)
	assert.Greater(t, quote.Low, 0.0)
}

func TestPriceFeedHighLowSpanWholeSession(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.01, time.Second, rand.New(rand.NewSource(17)))
	assert.NoError(t, err)

	// run well past the candle window: the extremes must survive even
	// after the candles that set them have been evicted
	start := time.Unix(1700000000, 0)
	high, low := 43250.00, 43250.00
	for i := 0; i < 300; i++ {
		feed.tick(start.Add(time.Duration(i) * time.Second))
		quote, ok := feed.Quote("BTC-EUR")
		assert.True(t, ok)
		if quote.Price > high {
			high = quote.Price
		}
		if quote.Price < low {
			low = quote.Price
		}
	}

	quote, ok := feed.Quote("BTC-EUR")
	assert.True(t, ok)
	assert.Equal(t, high, quote.High)
	assert.Equal(t, low, quote.Low)
}

func TestPriceFeedCandleWindowIsBounded(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, time.Second, rand.New(rand.NewSource(19)))
	assert.NoError(t, err)

	start := time.Unix(1700000000, 0)
	for i := 0; i < 300; i++ {
		feed.tick(start.Add(time.Duration(i) * time.Second))
	}

	closes := feed.RecentCloses("BTC-EUR", 10000)
	assert.Len(t, closes, seriesWindow)

	quote, _ := feed.Quote("BTC-EUR")
	last := feed.RecentCloses("BTC-EUR", 3)
	assert.Len(t, last, 3)
	assert.Equal(t, quote.Price, last[2])

	assert.Nil(t, feed.RecentCloses("BTC-USD", 10))
	assert.Nil(t, feed.RecentCloses("BTC-EUR", 0))
}

func TestPriceFeedPriceStaysPositiveUnderMaxDelta(t *testing.T) {
	pairs := []models.TradingPair{
		models.NewTradingPair("DOGE-EUR", "DOGE", "EUR", 0.0000001, 0, 0, 10, 10000000, 5, 1),
	}
	feed, err := NewPriceFeedService(pairs, 0.999999, time.Second, rand.New(rand.NewSource(13)))
	assert.NoError(t, err)

	start := time.Unix(1700000000, 0)
	for i := 0; i < 200; i++ {
		feed.tick(start.Add(time.Duration(i) * time.Second))
	}

	quote, _ := feed.Quote("DOGE-EUR")
	assert.Greater(t, quote.Price, 0.0)
}

func TestPriceFeedSubscriptionDelivery(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, time.Second, rand.New(rand.NewSource(5)))
	assert.NoError(t, err)

	sub, err := feed.Subscribe("BTC-EUR")
	assert.NoError(t, err)

	feed.tick(time.Unix(1700000000, 0))

	select {
	case quote := <-sub.C:
		current, _ := feed.Quote("BTC-EUR")
		assert.Equal(t, current.Price, quote.Price)
		assert.Equal(t, "BTC-EUR", quote.PairID)
	default:
		t.Fatal("expected a quote on the subscription channel")
	}

	// the ETH stream must not leak into a BTC subscription
	select {
	case quote, open := <-sub.C:
		if open {
			t.Fatalf("unexpected extra quote: %+v", quote)
		}
	default:
	}
}

func TestPriceFeedSubscribeUnknownPair(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, time.Second, rand.New(rand.NewSource(5)))
	assert.NoError(t, err)

	_, err = feed.Subscribe("BTC-USD")
	assert.ErrorIs(t, err, ErrPairNotFound)
}

func TestPriceFeedUnsubscribeStopsDelivery(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, time.Second, rand.New(rand.NewSource(5)))
	assert.NoError(t, err)

	sub, err := feed.Subscribe("BTC-EUR")
	assert.NoError(t, err)
	sub.Unsubscribe()

	feed.tick(time.Unix(1700000000, 0))

	_, open := <-sub.C
	assert.False(t, open)
}

func TestPriceFeedStopIsIdempotent(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, 5*time.Millisecond, rand.New(rand.NewSource(5)))
	assert.NoError(t, err)

	feed.Start()
	feed.Stop()
	assert.NotPanics(t, func() {
		feed.Stop()
		feed.Stop()
	})
}

func TestPriceFeedNoEmissionsAfterStop(t *testing.T) {
	feed, err := NewPriceFeedService(feedTestPairs(), 0.002, 5*time.Millisecond, rand.New(rand.NewSource(5)))
	assert.NoError(t, err)

	sub, err := feed.Subscribe("BTC-EUR")
	assert.NoError(t, err)

	feed.Start()
	time.Sleep(30 * time.Millisecond)
	feed.Stop()

	// drain anything emitted before or during the stop
	time.Sleep(10 * time.Millisecond)
	for {
		emptied := false
		select {
		case <-sub.C:
		default:
			emptied = true
		}
		if emptied {
			break
		}
	}

	// observation window: a stopped feed must stay silent
	time.Sleep(50 * time.Millisecond)
	select {
	case quote := <-sub.C:
		t.Fatalf("quote emitted after stop: %+v", quote)
	default:
	}
}
