// Package orderbook reconstructs a synthetic two-sided book around a mid
// price on every tick. Unlike a real matching engine there are no
// standing orders: the book is a pure function of (mid, spread,
// sentiment) recomputed from scratch each call (spec §4.2).
package orderbook

import (
	"github.com/ndrandal/feed-simulator/go-feed/internal/engine"
	"github.com/ndrandal/feed-simulator/go-feed/internal/sentiment"
)

// Levels is the fixed depth on each side of the book (spec §3: "15 levels
// each side").
const Levels = 15

// PriceLevel is a single rung of the book, with the running total of
// quantity at and inside this level (spec §3: PriceLevel).
type PriceLevel struct {
	Price      float64
	Quantity   int32
	Cumulative int32
}

// Snapshot is the full two-sided book shape for one tick (spec §3:
// OrderBookSnapshot).
type Snapshot struct {
	Bids    [Levels]PriceLevel
	Asks    [Levels]PriceLevel
	BestBid float64
	BestAsk float64
	Spread  float64
}

// Shaper is a pure function of current mid, spread, and sentiment (spec
// §4.2), apart from its RNG draws for level quantities.
type Shaper struct {
	rng *engine.RNG
}

// NewShaper binds a shaper to a session-owned RNG.
func NewShaper(rng *engine.RNG) *Shaper {
	return &Shaper{rng: rng}
}

// Shape builds a fresh 15x15-level snapshot around mid.
func (s *Shaper) Shape(mid, spread float64, tag sentiment.Tag) Snapshot {
	bestBid := engine.RoundTick(mid - spread/2)
	bestAsk := engine.RoundTick(mid + spread/2)

	depth := sentiment.DepthMultipliers(tag, 0.8+s.rng.Float64()*0.6, 0.8+s.rng.Float64()*0.6)

	var snap Snapshot
	snap.BestBid = bestBid
	snap.BestAsk = bestAsk
	snap.Spread = bestAsk - bestBid

	var bidCum, askCum int32
	for i := 0; i < Levels; i++ {
		bidPrice := engine.RoundTick(bestBid - float64(i)*engine.TickSize)
		askPrice := engine.RoundTick(bestAsk + float64(i)*engine.TickSize)

		bidQty := int32(float64(100+s.rng.Intn(400))*depth.Bid + 0.5)
		askQty := int32(float64(100+s.rng.Intn(400))*depth.Ask + 0.5)

		bidCum += bidQty
		askCum += askQty

		snap.Bids[i] = PriceLevel{Price: bidPrice, Quantity: bidQty, Cumulative: bidCum}
		snap.Asks[i] = PriceLevel{Price: askPrice, Quantity: askQty, Cumulative: askCum}
	}

	return snap
}
