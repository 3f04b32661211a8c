package engine

import (
	"math"
	"testing"

	"github.com/ndrandal/feed-simulator/go-feed/internal/sentiment"
)

func isTickMultiple(p float64) bool {
	scaled := p / TickSize
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func TestNextChangesPriceAndSnapsToTick(t *testing.T) {
	rng := NewRNG(1)
	eng := NewPriceEngine(rng)
	st := NewState()
	price := 100.0
	for i := 0; i < 2000; i++ {
		next, _ := eng.Next(price, sentiment.Bullish, sentiment.Normal, false, st)
		if next == price {
			t.Fatalf("tick %d: price did not change", i)
		}
		if !isTickMultiple(next) {
			t.Fatalf("tick %d: price %f not a multiple of tick size", i, next)
		}
		price = next
	}
}

func TestRoundTickIdempotent(t *testing.T) {
	xs := []float64{100.0, 100.027, 99.999, 0.01, 123.456}
	for _, x := range xs {
		once := RoundTick(x)
		twice := RoundTick(once)
		if once != twice {
			t.Fatalf("RoundTick not idempotent for %f: %f vs %f", x, once, twice)
		}
	}
}

func TestBullishDrift(t *testing.T) {
	rng := NewRNG(99)
	eng := NewPriceEngine(rng)
	st := NewState()
	open := 100.0
	price := open
	maxConsecutiveSeen := 0
	pullbackEpisodes := 0
	wasInPullback := false
	for i := 0; i < 2000; i++ {
		before := st.PullbackRemaining
		price, _ = eng.Next(price, sentiment.Bullish, sentiment.Normal, false, st)
		if st.ConsecutiveMoves > maxConsecutiveSeen {
			maxConsecutiveSeen = st.ConsecutiveMoves
		}
		if st.ConsecutiveMoves > 10 {
			t.Fatalf("tick %d: consecutive moves %d exceeds max 10", i, st.ConsecutiveMoves)
		}
		if st.PullbackRemaining > 0 && !wasInPullback {
			pullbackEpisodes++
			wasInPullback = true
		}
		if st.PullbackRemaining == 0 && before == 0 {
			wasInPullback = false
		}
	}
	if price <= open {
		t.Fatalf("expected bullish drift above open, got %f (open %f)", price, open)
	}
	if pullbackEpisodes == 0 {
		t.Fatalf("expected at least one pullback episode over 2000 bullish ticks")
	}
}

func TestSidewaysReverts(t *testing.T) {
	rng := NewRNG(55)
	eng := NewPriceEngine(rng)
	st := NewState()
	anchor := 100.0
	price := anchor
	within := 0
	const n = 2000
	for i := 0; i < n; i++ {
		price, _ = eng.Next(price, sentiment.Sideways, sentiment.Normal, false, st)
		if math.Abs(price-anchor)/anchor < 0.02 {
			within++
		}
	}
	if float64(within)/float64(n) < 0.99 {
		t.Fatalf("sideways price strayed beyond 2%% too often: %d/%d within band", within, n)
	}
}

func TestVolatileSpikes(t *testing.T) {
	rng := NewRNG(7)
	eng := NewPriceEngine(rng)
	st := NewState()
	params := sentiment.ParamsFor(sentiment.Volatile)
	price := 100.0
	bigMoves := 0
	const n = 1000
	for i := 0; i < n; i++ {
		next, _ := eng.Next(price, sentiment.Volatile, sentiment.Normal, false, st)
		changeFraction := math.Abs(next-price) / price
		if changeFraction >= params.BaseVol {
			bigMoves++
		}
		price = next
	}
	if float64(bigMoves)/float64(n) < 0.10 {
		t.Fatalf("expected >=10%% of volatile moves to be >= base_vol, got %d/%d", bigMoves, n)
	}
}

func TestShockGapsAndOccurrence(t *testing.T) {
	rng := NewRNG(3)
	eng := NewPriceEngine(rng)
	st := NewState()
	price := 100.0
	shocks := 0
	lastShockTick := -1
	for i := 0; i < 1000; i++ {
		next, info := eng.Next(price, sentiment.Neutral, sentiment.Normal, true, st)
		if info.Fired {
			if lastShockTick >= 0 && i-lastShockTick < 20 {
				t.Fatalf("shock gap %d < 20 (ticks %d -> %d)", i-lastShockTick, lastShockTick, i)
			}
			lastShockTick = i
			shocks++
		}
		price = next
	}
	if shocks == 0 {
		t.Fatalf("expected at least one shock over 1000 ticks with shocks enabled")
	}
}

func TestNextHasNoNoOpPath(t *testing.T) {
	// PriceEngine has no notion of "paused" itself (spec §4.1: "paused
	// sessions do not call next"); this documents that contract by
	// asserting repeated calls always move the price, i.e. the engine
	// itself imposes no silent no-op path a caller could rely on as a
	// substitute for skipping the call.
	rng := NewRNG(11)
	eng := NewPriceEngine(rng)
	st := NewState()
	price := 50.0
	for i := 0; i < 200; i++ {
		next, _ := eng.Next(price, sentiment.Choppy, sentiment.Mild, false, st)
		if next == price {
			t.Fatalf("tick %d: unexpected no-op move", i)
		}
		price = next
	}
}

func TestPriceNeverNonPositive(t *testing.T) {
	rng := NewRNG(13)
	eng := NewPriceEngine(rng)
	st := NewState()
	price := 0.05
	for i := 0; i < 5000; i++ {
		price, _ = eng.Next(price, sentiment.Bearish, sentiment.Extreme, true, st)
		if price < 0.01 {
			t.Fatalf("tick %d: price dropped below floor: %f", i, price)
		}
	}
}
