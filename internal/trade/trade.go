// Package trade generates the synthetic executed-trade stream for a
// session (spec §4.3).
package trade

import (
	"github.com/ndrandal/feed-simulator/go-feed/internal/engine"
	"github.com/ndrandal/feed-simulator/go-feed/internal/sentiment"
)

// Side is the aggressor side of a generated trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Trade is a single executed print (spec §3: Trade).
type Trade struct {
	ID          int64
	Price       float64
	Quantity    float64
	Side        Side
	TimestampMs int64
}

// fireProbability is the base per-tick probability of emitting a trade.
const fireProbability = 0.33

// maxCounterPerSession is the ceiling spec §4.3/§4.4 assumes for the
// session_id*1_000_000+counter encoding to stay collision-free.
const maxCounterPerSession = 1_000_000

// Generator produces at most one trade per tick for a single session.
type Generator struct {
	rng       *engine.RNG
	sessionID int64
	counter   int64
}

// NewGenerator binds a trade generator to a session id and its RNG.
func NewGenerator(rng *engine.RNG, sessionID int64) *Generator {
	return &Generator{rng: rng, sessionID: sessionID}
}

// Reset zeroes the trade counter. Session.Reset does not call it, so a
// session's trade ids keep counting up across a reset.
func (g *Generator) Reset() {
	g.counter = 0
}

// MaybeTrade rolls for a trade this tick and returns it if fired.
func (g *Generator) MaybeTrade(mid float64, tag sentiment.Tag, intensity sentiment.Intensity, nowMs int64) (Trade, bool) {
	if g.rng.Float64() >= fireProbability {
		return Trade{}, false
	}

	side := Sell
	if g.rng.Float64() < sentiment.BuyProbability(tag, g.rng.Float64()*0.20) {
		side = Buy
	}

	qty := float64(int((10+g.rng.Float64()*200)*intensity.VolumeMultiplier() + 0.5))

	if g.counter >= maxCounterPerSession {
		// Spec §4.3/§9: sessions end far sooner in practice. Wrapping keeps
		// ids out of the next session's id range; ids issued after the
		// wrap repeat this session's earlier ids.
		g.counter = 0
	}
	g.counter++
	id := g.sessionID*maxCounterPerSession + g.counter

	return Trade{
		ID:          id,
		Price:       mid,
		Quantity:    qty,
		Side:        side,
		TimestampMs: nowMs,
	}, true
}
