// Package session owns the per-connection simulation state machine (spec
// §4.5) and the Multiplexer that hosts many sessions concurrently (spec
// §4.6).
package session

import (
	"strings"
	"sync"

	"github.com/ndrandal/feed-simulator/go-feed/internal/candle"
	"github.com/ndrandal/feed-simulator/go-feed/internal/engine"
	"github.com/ndrandal/feed-simulator/go-feed/internal/orderbook"
	"github.com/ndrandal/feed-simulator/go-feed/internal/sentiment"
	"github.com/ndrandal/feed-simulator/go-feed/internal/trade"
	"github.com/ndrandal/feed-simulator/go-feed/internal/wire"
)

// Lifecycle is the session's state machine (spec §4.5): Idle -> Running
// <-> Paused -> Idle -> Terminated.
type Lifecycle int

const (
	Idle Lifecycle = iota
	Running
	Paused
	Terminated
)

const defaultTickNominalMs = 100
const shockActiveWindowMs = 5000
const shockCooldownTicks = 20

// Session is one client's independent simulation: its own RNG, price
// engine, order book shaper, trade generator, and candle manager. Spec
// §4.6/§9: no data structure here is ever shared with another session.
type Session struct {
	mu sync.Mutex

	id    int64
	state Lifecycle

	priceState *engine.State
	priceEng   *engine.PriceEngine
	shaper     *orderbook.Shaper
	tradeGen   *trade.Generator
	candles    *candle.Manager

	symbol           string
	spread           float64
	speed            float64
	sentimentTag     sentiment.Tag
	intensity        sentiment.Intensity
	paused           bool
	newsShockEnabled bool

	currentPrice float64
	openPrice    float64
	highPrice    float64
	lowPrice     float64
	totalVolume  float64
	totalTrades  int64

	lastShockAtMs int64
	haveShocked   bool
}

// New creates an Idle session with an independently seeded RNG (spec §3:
// "one instance per session; seeded independently").
func New(id int64, seed int64) *Session {
	rng := engine.NewRNG(seed)
	return &Session{
		id:           id,
		state:        Idle,
		priceEng:     engine.NewPriceEngine(rng),
		shaper:       orderbook.NewShaper(rng),
		tradeGen:     trade.NewGenerator(rng, id),
		candles:      candle.NewManager(),
		symbol:       "SIM",
		spread:       0.10,
		speed:        1.0,
		sentimentTag: sentiment.Neutral,
		intensity:    sentiment.Normal,
	}
}

// ID returns the session's monotonic identifier.
func (s *Session) ID() int64 { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Speed returns the session's configured tick-rate multiplier, used by the
// Multiplexer to pace this session's ticks (spec §4.6).
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

func parseSentiment(v string) (sentiment.Tag, bool) {
	t := sentiment.Tag(strings.ToUpper(v))
	return t, t.Valid()
}

func parseIntensity(v string) (sentiment.Intensity, bool) {
	i := sentiment.Intensity(strings.ToUpper(v))
	return i, i.Valid()
}

// Start applies a start config and enters Running. Per spec §7, "start
// while already Running" is handled as a reset followed by a start: this
// method always resets first, so it is safe to call from any state.
func (s *Session) Start(cfg wire.StartConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked(false)

	if cfg.Symbol != "" {
		s.symbol = cfg.Symbol
	}
	if cfg.Price > 0 {
		s.currentPrice = cfg.Price
	} else {
		s.currentPrice = 100.0
	}
	if cfg.Spread >= 0.05 && cfg.Spread <= 0.25 {
		s.spread = cfg.Spread
	}
	if t, ok := parseSentiment(cfg.Sentiment); ok {
		s.sentimentTag = t
	}
	if i, ok := parseIntensity(cfg.Intensity); ok {
		s.intensity = i
	}
	if cfg.Speed >= 0.25 && cfg.Speed <= 2.0 {
		s.speed = cfg.Speed
	}

	s.openPrice = s.currentPrice
	s.highPrice = s.currentPrice
	s.lowPrice = s.currentPrice
	s.state = Running
}

// SetSentiment updates the sentiment tag if it is recognised; unrecognised
// tags are ignored per spec §7.
func (s *Session) SetSentiment(v string) bool {
	t, ok := parseSentiment(v)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.sentimentTag = t
	s.mu.Unlock()
	return true
}

// SetIntensity updates the intensity tag if it is recognised.
func (s *Session) SetIntensity(v string) bool {
	i, ok := parseIntensity(v)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.intensity = i
	s.mu.Unlock()
	return true
}

// SetSpread updates the spread. Callers (the wire decoder) are expected to
// have already range-checked v into [0.05, 0.25].
func (s *Session) SetSpread(v float64) {
	s.mu.Lock()
	s.spread = v
	s.mu.Unlock()
}

// SetSpeed updates the speed multiplier. Range-checked into [0.25, 2.0] by
// the wire decoder before this is called.
func (s *Session) SetSpeed(v float64) {
	s.mu.Lock()
	s.speed = v
	s.mu.Unlock()
}

// SetPause pauses or resumes the session.
func (s *Session) SetPause(paused bool) {
	s.mu.Lock()
	s.paused = paused
	if paused && s.state == Running {
		s.state = Paused
	} else if !paused && s.state == Paused {
		s.state = Running
	}
	s.mu.Unlock()
}

// SetNewsShockEnabled toggles the shock-activation window.
func (s *Session) SetNewsShockEnabled(v bool) {
	s.mu.Lock()
	s.newsShockEnabled = v
	s.mu.Unlock()
}

// Reset returns the session to Idle. Per SPEC_FULL.md's resolution of the
// preservation open question, sentiment/intensity/spread/speed survive;
// only price/book/candle/stat state is cleared.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(true)
}

func (s *Session) resetLocked(toIdle bool) {
	s.priceState = engine.NewState()
	s.candles.Reset()
	// tradeGen's counter is deliberately left running across a reset: spec
	// §3/§8 require trade ids to stay unique for the life of the process,
	// and §4.3's session_id*1_000_000+counter encoding only stays
	// collision-free if the counter never rewinds while a session is alive.
	s.currentPrice = 0
	s.openPrice = 0
	s.highPrice = 0
	s.lowPrice = 0
	s.totalVolume = 0
	s.totalTrades = 0
	s.haveShocked = false
	s.lastShockAtMs = 0
	if toIdle {
		s.state = Idle
		s.paused = false
	}
}

// GetCandleHistory delegates to the CandleManager (spec §4.5).
func (s *Session) GetCandleHistory(periodSeconds int) (completed []candle.Candle, partial *candle.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candles.History(periodSeconds)
}

// Bundle is everything a Tick produced, ready for the Multiplexer to
// encode and send.
type Bundle struct {
	Orderbook        orderbook.Snapshot
	Trade            *trade.Trade
	CurrentCandles   map[int]*candle.Candle
	CompletedCandles []candle.Completed
	Stats            StatsSnapshot
	PriceTimestampMs int64
	Price            float64
	Volume           float64
	ShockFired       bool
}

// StatsSnapshot mirrors spec §3 SessionStats plus the echoed control flags.
type StatsSnapshot struct {
	CurrentPrice               float64
	OpenPrice                  float64
	HighPrice                  float64
	LowPrice                   float64
	TotalVolume                float64
	TotalTrades                int64
	ChangePercentage           float64
	Symbol                     string
	Sentiment                  string
	Intensity                  string
	Paused                     bool
	NewsShockEnabled           bool
	NewsShockCooldownMs        int64
	NewsShockCooldownRemaining int64
	NewsShockActiveRemaining   int64
}

// Tick advances the simulation by one step. It is a no-op (ok=false) in
// every state but Running (spec §4.5: "tick is a no-op in Idle, Paused,
// and Terminated").
func (s *Session) Tick(nowMs int64) (Bundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return Bundle{}, false
	}

	newPrice, shock := s.priceEng.Next(s.currentPrice, s.sentimentTag, s.intensity, s.newsShockEnabled, s.priceState)
	s.currentPrice = newPrice
	if newPrice > s.highPrice {
		s.highPrice = newPrice
	}
	if newPrice < s.lowPrice || s.lowPrice == 0 {
		s.lowPrice = newPrice
	}
	if shock.Fired {
		s.haveShocked = true
		s.lastShockAtMs = nowMs
	}

	snap := s.shaper.Shape(s.currentPrice, s.spread, s.sentimentTag)

	var tr *trade.Trade
	volume := 0.0
	if t, ok := s.tradeGen.MaybeTrade(s.currentPrice, s.sentimentTag, s.intensity, nowMs); ok {
		tr = &t
		volume = t.Quantity
		s.totalVolume += t.Quantity
		s.totalTrades++
	}

	current, completed := s.candles.Ingest(nowMs, s.currentPrice, volume)

	changePct := 0.0
	if s.openPrice != 0 {
		changePct = (s.currentPrice - s.openPrice) / s.openPrice * 100
	}

	activeRemaining := int64(0)
	if s.haveShocked {
		elapsed := nowMs - s.lastShockAtMs
		if elapsed < shockActiveWindowMs {
			activeRemaining = shockActiveWindowMs - elapsed
		}
	}
	cooldownRemaining := int64(0)
	if s.priceState.TicksSinceLastShock < shockCooldownTicks {
		cooldownRemaining = int64(shockCooldownTicks-s.priceState.TicksSinceLastShock) * defaultTickNominalMs
	}

	stats := StatsSnapshot{
		CurrentPrice:               s.currentPrice,
		OpenPrice:                  s.openPrice,
		HighPrice:                  s.highPrice,
		LowPrice:                   s.lowPrice,
		TotalVolume:                s.totalVolume,
		TotalTrades:                s.totalTrades,
		ChangePercentage:           changePct,
		Symbol:                     s.symbol,
		Sentiment:                  string(s.sentimentTag),
		Intensity:                  string(s.intensity),
		Paused:                     s.paused,
		NewsShockEnabled:           s.newsShockEnabled,
		NewsShockCooldownMs:        shockCooldownTicks * defaultTickNominalMs,
		NewsShockCooldownRemaining: cooldownRemaining,
		NewsShockActiveRemaining:   activeRemaining,
	}

	return Bundle{
		Orderbook:        snap,
		Trade:            tr,
		CurrentCandles:   current,
		CompletedCandles: completed,
		Stats:            stats,
		PriceTimestampMs: nowMs,
		Price:            s.currentPrice,
		Volume:           volume,
		ShockFired:       shock.Fired,
	}, true
}
