package engine

import (
	"math"

	"github.com/ndrandal/feed-simulator/go-feed/internal/sentiment"
)

// TickSize is the minimum price increment (spec glossary: "Tick (price)").
const TickSize = 0.05

// ShockKind tags the direction of a fired news shock.
type ShockKind int

const (
	ShockNone ShockKind = iota
	ShockBullish
	ShockBearish
)

// ShockInfo is returned by PriceEngine.Next when a shock fired this call.
type ShockInfo struct {
	Fired   bool
	Kind    ShockKind
	Percent float64
}

// State is the PriceEngine's per-session carry state (spec §3:
// PriceEngineState). It is owned exclusively by one Session.
type State struct {
	ConsecutiveMoves   int
	LastDirection      int // +1 or -1
	PullbackRemaining  int
	TicksSinceLastShock int
	LastShockKind      ShockKind
	AnchorPrice        float64
}

// NewState returns a freshly initialised PriceEngineState. LastDirection
// starts at +1 so the first "reverse of last direction" branch has a
// defined sign to flip.
func NewState() *State {
	return &State{LastDirection: 1}
}

// PriceEngine is the stateful scalar simulator described in spec §4.1. It
// holds no state of its own beyond the RNG; all carry state lives in the
// State value passed by the owning Session, matching spec §9's requirement
// that no simulation state be hidden or shared across sessions.
type PriceEngine struct {
	rng *RNG
}

// NewPriceEngine binds a price engine to a session-owned RNG.
func NewPriceEngine(rng *RNG) *PriceEngine {
	return &PriceEngine{rng: rng}
}

// RoundTick snaps a price to the nearest 0.05 increment.
func RoundTick(x float64) float64 {
	return math.Round(x*20) / 20
}

// Next advances the price engine by one simulation tick (spec §4.1).
func (e *PriceEngine) Next(current float64, tag sentiment.Tag, intensity sentiment.Intensity, shockEnabled bool, st *State) (float64, ShockInfo) {
	params := sentiment.ParamsFor(tag)
	st.TicksSinceLastShock++

	// 1. Shock attempt.
	if shockEnabled && st.TicksSinceLastShock >= 20 && e.rng.Float64() < 0.03 {
		direction := -1
		if e.rng.Float64() < params.UpProb {
			direction = 1
		}
		magnitude := (0.01 + e.rng.Float64()*0.02) * intensity.PriceMultiplier()
		newPrice := RoundTick(current * (1 + float64(direction)*magnitude))
		if newPrice == current {
			newPrice = current + float64(direction)*TickSize
		}
		if newPrice < 0.01 {
			newPrice = 0.01
		}

		st.ConsecutiveMoves = 0
		st.PullbackRemaining = 0
		st.TicksSinceLastShock = 0
		kind := ShockBearish
		if direction > 0 {
			kind = ShockBullish
		}
		st.LastShockKind = kind

		return newPrice, ShockInfo{Fired: true, Kind: kind, Percent: magnitude}
	}

	// 2. Anchor initialisation.
	if st.AnchorPrice <= 0 {
		st.AnchorPrice = current
	}

	// 3. Normal move.
	changeFraction, direction := e.normalMove(current, params, tag, intensity, st)

	// 4. Apply.
	newPrice := RoundTick(current * (1 + changeFraction))
	if newPrice == current {
		newPrice = current + float64(direction)*TickSize
	}
	if newPrice < 0.01 {
		newPrice = 0.01
	}

	return newPrice, ShockInfo{}
}

// normalMove implements the branch order normative in spec §4.1: reversal
// -> forced pullback -> ongoing pullback -> normal. Later branches read
// state the earlier branches may have just written, so the order matters.
func (e *PriceEngine) normalMove(current float64, params sentiment.Params, tag sentiment.Tag, intensity sentiment.Intensity, st *State) (float64, int) {
	effectiveUp := params.UpProb

	if tag == sentiment.Sideways {
		effectiveUp = params.UpProb - ((current-st.AnchorPrice)/st.AnchorPrice)*0.4
		if effectiveUp < 0.2 {
			effectiveUp = 0.2
		}
		if effectiveUp > 0.8 {
			effectiveUp = 0.8
		}
	}
	if tag == sentiment.Choppy {
		effectiveUp = 0.35 + e.rng.Float64()*0.30
	}

	var direction int
	inPullback := false

	switch {
	case e.rng.Float64() < params.ReversalChance:
		direction = -st.LastDirection
		st.ConsecutiveMoves = 1
		st.LastDirection = direction

	case st.ConsecutiveMoves >= params.MaxConsecutive:
		// last_direction is deliberately left untouched: every tick of the
		// pullback that follows computes its direction off the same
		// pre-pullback last_direction, so the pullback stays one
		// consistent countertrend run rather than alternating.
		direction = -st.LastDirection
		st.PullbackRemaining = 2 + e.rng.Intn(3)
		st.ConsecutiveMoves = 0
		inPullback = true

	case st.PullbackRemaining > 0:
		direction = -st.LastDirection
		st.PullbackRemaining--
		if st.PullbackRemaining == 0 {
			st.ConsecutiveMoves = 0
		}
		inPullback = true

	default:
		if st.ConsecutiveMoves > 0 && params.TrendStrength > 0.5 {
			adj := (params.TrendStrength - 0.5) * 0.15
			if st.LastDirection > 0 {
				effectiveUp += adj
			} else {
				effectiveUp -= adj
			}
		}
		direction = -1
		if e.rng.Float64() < effectiveUp {
			direction = 1
		}
		if direction == st.LastDirection {
			st.ConsecutiveMoves++
		} else {
			st.ConsecutiveMoves = 1
			st.LastDirection = direction
		}
	}

	base := (0.5 + e.rng.Float64()*0.5) * params.BaseVol
	if inPullback {
		base *= 0.7
	}
	base *= intensity.PriceMultiplier()
	if tag == sentiment.Volatile && e.rng.Float64() < 0.15 {
		base *= 2
	}
	if tag == sentiment.Choppy {
		base *= 0.5 + e.rng.Float64()
	}

	return float64(direction) * base, direction
}
