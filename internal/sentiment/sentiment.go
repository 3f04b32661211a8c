// Package sentiment holds the static numeric tables that parameterise the
// price engine and order book shaper for each sentiment tag.
package sentiment

// Tag is the sentiment a session is currently configured with.
type Tag string

const (
	Bullish  Tag = "BULLISH"
	Bearish  Tag = "BEARISH"
	Volatile Tag = "VOLATILE"
	Sideways Tag = "SIDEWAYS"
	Choppy   Tag = "CHOPPY"
	Neutral  Tag = "NEUTRAL"
)

// Valid reports whether t is a recognised sentiment tag.
func (t Tag) Valid() bool {
	switch t {
	case Bullish, Bearish, Volatile, Sideways, Choppy, Neutral:
		return true
	}
	return false
}

// Intensity is the scalar multiplier tag a session is configured with.
type Intensity string

const (
	Mild       Intensity = "MILD"
	Moderate   Intensity = "MODERATE"
	Normal     Intensity = "NORMAL"
	Aggressive Intensity = "AGGRESSIVE"
	Extreme    Intensity = "EXTREME"
)

// Valid reports whether i is a recognised intensity tag.
func (i Intensity) Valid() bool {
	switch i {
	case Mild, Moderate, Normal, Aggressive, Extreme:
		return true
	}
	return false
}

var priceMult = map[Intensity]float64{
	Mild:       0.4,
	Moderate:   0.7,
	Normal:     0.85,
	Aggressive: 1.0,
	Extreme:    1.25,
}

var volumeMult = map[Intensity]float64{
	Mild:       0.5,
	Moderate:   0.8,
	Normal:     1.0,
	Aggressive: 1.2,
	Extreme:    1.5,
}

// PriceMultiplier returns the price-magnitude scalar for an intensity tag.
func (i Intensity) PriceMultiplier() float64 {
	if m, ok := priceMult[i]; ok {
		return m
	}
	return priceMult[Normal]
}

// VolumeMultiplier returns the volume scalar for an intensity tag.
func (i Intensity) VolumeMultiplier() float64 {
	if m, ok := volumeMult[i]; ok {
		return m
	}
	return volumeMult[Normal]
}

// Params holds the six numeric parameters a sentiment tag carries into the
// price engine's normal-move branch selection (spec §3, §4.1).
type Params struct {
	UpProb          float64
	BaseVol         float64
	TrendStrength   float64
	ReversalChance  float64
	MaxConsecutive  int
	MeanRevert      bool
}

var table = map[Tag]Params{
	Bullish:  {UpProb: 0.62, BaseVol: 0.0004, TrendStrength: 0.80, ReversalChance: 0.08, MaxConsecutive: 10, MeanRevert: false},
	Bearish:  {UpProb: 0.38, BaseVol: 0.0004, TrendStrength: 0.80, ReversalChance: 0.08, MaxConsecutive: 10, MeanRevert: false},
	Volatile: {UpProb: 0.50, BaseVol: 0.0012, TrendStrength: 0.65, ReversalChance: 0.18, MaxConsecutive: 6, MeanRevert: false},
	Sideways: {UpProb: 0.50, BaseVol: 0.0002, TrendStrength: 0.30, ReversalChance: 0.10, MaxConsecutive: 5, MeanRevert: true},
	Choppy:   {UpProb: 0.50, BaseVol: 0.0010, TrendStrength: 0.20, ReversalChance: 0.35, MaxConsecutive: 3, MeanRevert: false},
	Neutral:  {UpProb: 0.50, BaseVol: 0.0004, TrendStrength: 0.50, ReversalChance: 0.10, MaxConsecutive: 8, MeanRevert: false},
}

// ParamsFor returns the numeric table row for a sentiment tag, falling back
// to Neutral for an unrecognised tag so callers never need to branch.
func ParamsFor(t Tag) Params {
	if p, ok := table[t]; ok {
		return p
	}
	return table[Neutral]
}

// DepthMultiplier is the (bid, ask) depth shaping factor for OrderBookShaper.
type DepthMultiplier struct {
	Bid float64
	Ask float64
}

// BuyProbability returns the probability that a generated trade is a buy,
// per the table in spec §3. Choppy draws a fresh U[0,0.20) component on
// every call via u020, matching "Choppy 0.40 + U[0,0.20)".
func BuyProbability(t Tag, u020 float64) float64 {
	switch t {
	case Bullish:
		return 0.72
	case Bearish:
		return 0.28
	case Choppy:
		return 0.40 + u020
	default:
		return 0.50
	}
}

// DepthMultipliers returns the bid/ask depth scalars for a sentiment tag.
// Choppy draws both components fresh via uBid/uAsk, each U[0.8,1.4).
func DepthMultipliers(t Tag, uBid, uAsk float64) DepthMultiplier {
	switch t {
	case Bullish:
		return DepthMultiplier{Bid: 1.5, Ask: 0.7}
	case Bearish:
		return DepthMultiplier{Bid: 0.7, Ask: 1.5}
	case Volatile:
		return DepthMultiplier{Bid: 0.6, Ask: 0.6}
	case Sideways:
		return DepthMultiplier{Bid: 1.3, Ask: 1.3}
	case Choppy:
		return DepthMultiplier{Bid: uBid, Ask: uAsk}
	default:
		return DepthMultiplier{Bid: 1.0, Ask: 1.0}
	}
}
