package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrandal/feed-simulator/go-feed/internal/wire"
)

func startedSession(t *testing.T) *Session {
	t.Helper()
	s := New(1, 42)
	s.Start(wire.StartConfig{
		Symbol: "TEST", Price: 100, Spread: 0.10,
		Sentiment: "NEUTRAL", Intensity: "NORMAL", Speed: 1.0,
	})
	return s
}

func TestTickNoOpBeforeStart(t *testing.T) {
	s := New(1, 1)
	_, ok := s.Tick(1000)
	assert.False(t, ok)
}

func TestStartEntersRunning(t *testing.T) {
	s := startedSession(t)
	assert.Equal(t, Running, s.State())
}

func TestPauseStopsTicks(t *testing.T) {
	s := startedSession(t)
	s.SetPause(true)
	assert.Equal(t, Paused, s.State())
	_, ok := s.Tick(1000)
	assert.False(t, ok)

	s.SetPause(false)
	assert.Equal(t, Running, s.State())
	_, ok = s.Tick(1100)
	assert.True(t, ok)
}

func TestResetReturnsToIdleAndPreservesControls(t *testing.T) {
	s := startedSession(t)
	s.SetSentiment("BULLISH")
	s.SetSpread(0.15)
	s.Tick(1000)

	s.Reset()
	assert.Equal(t, Idle, s.State())
	_, ok := s.Tick(1000)
	assert.False(t, ok)

	s.mu.Lock()
	sentiment := s.sentimentTag
	spread := s.spread
	s.mu.Unlock()
	assert.EqualValues(t, "BULLISH", sentiment)
	assert.InDelta(t, 0.15, spread, 1e-9)
}

func TestRestartWhileRunningActsAsResetThenStart(t *testing.T) {
	s := startedSession(t)
	for i := int64(1); i <= 50; i++ {
		s.Tick(1000 + i*100)
	}

	s.Start(wire.StartConfig{Symbol: "NEW", Price: 50, Spread: 0.10, Sentiment: "NEUTRAL", Intensity: "NORMAL", Speed: 1.0})
	assert.Equal(t, Running, s.State())

	bundle, ok := s.Tick(1000)
	require.True(t, ok)
	assert.InDelta(t, 0, bundle.Stats.ChangePercentage, 5)
}

// TestTradeIdsStayUniqueAcrossReset guards spec §3/§8: trade ids must stay
// pairwise distinct across the whole life of a session, so the trade
// generator's counter must not rewind on reset or restart.
func TestTradeIdsStayUniqueAcrossReset(t *testing.T) {
	s := startedSession(t)
	seen := make(map[int64]bool)

	collect := func(nTicks int, startMs int64) {
		for i := int64(0); i < int64(nTicks); i++ {
			bundle, ok := s.Tick(startMs + i*100)
			require.True(t, ok)
			if bundle.Trade == nil {
				continue
			}
			require.False(t, seen[bundle.Trade.ID], "trade id %d reused", bundle.Trade.ID)
			seen[bundle.Trade.ID] = true
		}
	}

	collect(500, 1000)
	s.Reset()
	s.Start(wire.StartConfig{
		Symbol: "TEST", Price: 100, Spread: 0.10,
		Sentiment: "NEUTRAL", Intensity: "NORMAL", Speed: 1.0,
	})
	collect(500, 1000)

	assert.NotEmpty(t, seen)
}

func TestUnrecognisedSentimentIgnored(t *testing.T) {
	s := startedSession(t)
	ok := s.SetSentiment("GIBBERISH")
	assert.False(t, ok)
}

func TestCandleHistoryTracksTicks(t *testing.T) {
	s := startedSession(t)
	for i := int64(1); i <= 20; i++ {
		s.Tick(i * 50)
	}
	completed, partial := s.GetCandleHistory(1)
	assert.NotNil(t, partial)
	_ = completed
}

func TestTickBundleHasFullOrderbook(t *testing.T) {
	s := startedSession(t)
	bundle, ok := s.Tick(1000)
	require.True(t, ok)
	assert.Less(t, bundle.Orderbook.Bids[0].Price, bundle.Orderbook.Asks[0].Price)
	assert.Len(t, bundle.CurrentCandles, 5)
}

// TestSessionIsolation covers spec §8 scenario 6: two sessions started with
// identical configs and seeds must not leak state into each other, and
// resetting one must leave the other's candles and stats untouched.
func TestSessionIsolation(t *testing.T) {
	cfg := wire.StartConfig{
		Symbol: "TEST", Price: 100, Spread: 0.10,
		Sentiment: "BULLISH", Intensity: "NORMAL", Speed: 1.0,
	}
	a := New(1, 7)
	b := New(2, 7)
	a.Start(cfg)
	b.Start(cfg)

	for i := int64(1); i <= 50; i++ {
		a.Tick(1000 + i*100)
		b.Tick(1000 + i*100)
	}

	aCompleted, aPartial := a.GetCandleHistory(1)
	bCompletedBefore, bPartialBefore := b.GetCandleHistory(1)
	require.NotNil(t, bPartialBefore)
	_ = aCompleted

	a.Reset()

	_, aPartialAfterReset := a.GetCandleHistory(1)
	assert.Nil(t, aPartialAfterReset)

	bCompletedAfter, bPartialAfter := b.GetCandleHistory(1)
	assert.Equal(t, len(bCompletedBefore), len(bCompletedAfter))
	require.NotNil(t, bPartialAfter)
	assert.Equal(t, bPartialBefore.TimestampMs, bPartialAfter.TimestampMs)

	b.mu.Lock()
	bTotalTrades := b.totalTrades
	bCurrentPrice := b.currentPrice
	b.mu.Unlock()
	assert.NotZero(t, bCurrentPrice)
	_ = bTotalTrades
	_ = aPartial
}
