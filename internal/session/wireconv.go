package session

import (
	"strconv"

	"github.com/ndrandal/feed-simulator/go-feed/internal/candle"
	"github.com/ndrandal/feed-simulator/go-feed/internal/orderbook"
	"github.com/ndrandal/feed-simulator/go-feed/internal/wire"
)

func toCandleWire(c candle.Candle) wire.CandleWire {
	return wire.CandleWire{
		TimestampMs: c.TimestampMs,
		Open:        c.Open,
		High:        c.High,
		Low:         c.Low,
		Close:       c.Close,
		Volume:      c.Volume,
		Trades:      c.Trades,
	}
}

func toOrderbookWire(snap orderbook.Snapshot) wire.OrderBookWire {
	var out wire.OrderBookWire
	for i := 0; i < orderbook.Levels; i++ {
		out.Bids[i] = wire.PriceLevelWire{
			Price:    snap.Bids[i].Price,
			Quantity: snap.Bids[i].Quantity,
			Total:    snap.Bids[i].Cumulative,
		}
		out.Asks[i] = wire.PriceLevelWire{
			Price:    snap.Asks[i].Price,
			Quantity: snap.Asks[i].Quantity,
			Total:    snap.Asks[i].Cumulative,
		}
	}
	out.BestBid = snap.BestBid
	out.BestAsk = snap.BestAsk
	out.Spread = snap.Spread
	return out
}

func toStatsWire(s StatsSnapshot) wire.StatsWire {
	return wire.StatsWire{
		CurrentPrice:               s.CurrentPrice,
		OpenPrice:                  s.OpenPrice,
		HighPrice:                  s.HighPrice,
		LowPrice:                   s.LowPrice,
		TotalVolume:                s.TotalVolume,
		TotalTrades:                s.TotalTrades,
		ChangePercentage:           s.ChangePercentage,
		Symbol:                     s.Symbol,
		Sentiment:                  s.Sentiment,
		Intensity:                  s.Intensity,
		Paused:                     s.Paused,
		NewsShockEnabled:           s.NewsShockEnabled,
		NewsShockCooldown:          s.NewsShockCooldownMs,
		NewsShockCooldownRemaining: s.NewsShockCooldownRemaining,
		NewsShockActiveRemaining:   s.NewsShockActiveRemaining,
	}
}

func toTickWire(b Bundle) wire.TickData {
	current := make(map[string]*wire.CandleWire, len(b.CurrentCandles))
	for period, c := range b.CurrentCandles {
		cw := toCandleWire(*c)
		current[strconv.Itoa(period)] = &cw
	}

	completed := make([]wire.CompletedCandleWire, 0, len(b.CompletedCandles))
	for _, c := range b.CompletedCandles {
		completed = append(completed, wire.CompletedCandleWire{
			Timeframe: c.Period,
			Candle:    toCandleWire(c.Candle),
		})
	}

	var tr *wire.TradeWire
	if b.Trade != nil {
		tr = &wire.TradeWire{
			ID:          b.Trade.ID,
			Price:       b.Trade.Price,
			Quantity:    b.Trade.Quantity,
			Side:        string(b.Trade.Side),
			TimestampMs: b.Trade.TimestampMs,
		}
	}

	return wire.TickData{
		Orderbook: toOrderbookWire(b.Orderbook),
		Stats:     toStatsWire(b.Stats),
		Price: wire.PriceWire{
			Timestamp: b.PriceTimestampMs,
			Price:     b.Price,
			Volume:    b.Volume,
		},
		CurrentCandles:   current,
		CompletedCandles: completed,
		Trade:            tr,
	}
}

func toCandleHistoryWire(timeframe int, completed []candle.Candle, partial *candle.Candle) wire.CandleHistoryData {
	out := make([]wire.CandleWire, len(completed))
	for i, c := range completed {
		out[i] = toCandleWire(c)
	}
	var cur *wire.CandleWire
	if partial != nil {
		cw := toCandleWire(*partial)
		cur = &cw
	}
	return wire.CandleHistoryData{
		Timeframe: timeframe,
		Candles:   out,
		Current:   cur,
	}
}
