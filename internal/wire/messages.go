// Package wire implements the text wire protocol of spec §6: client
// control commands and server tick/history bundles, carried as one JSON
// object per logical message (possibly several concatenated in a single
// transport frame).
package wire

// StartConfig is the payload of a "start" control message.
type StartConfig struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Spread    float64 `json:"spread"`
	Sentiment string  `json:"sentiment"`
	Intensity string  `json:"intensity"`
	Speed     float64 `json:"speed"`
}

// Inbound is the decoded shape of any client -> server message. Exactly
// one of the typed fields is meaningful, selected by Type (spec §9:
// "never string-dispatch inside the hot tick path" — Multiplexer switches
// on this field once per message, not per tick).
type Inbound struct {
	Type string

	Start       *StartConfig
	StringValue string  // sentiment/intensity tag, ping echo
	NumberValue float64 // spread/speed
	BoolValue   bool    // pause/newsShock
	Timeframe   int     // getCandles
}

const (
	InStart      = "start"
	InSentiment  = "sentiment"
	InIntensity  = "intensity"
	InSpread     = "spread"
	InSpeed      = "speed"
	InPause      = "pause"
	InReset      = "reset"
	InNewsShock  = "newsShock"
	InGetCandles = "getCandles"
	InPing       = "ping"
)

// PriceLevelWire is one book rung on the wire.
type PriceLevelWire struct {
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
	Total    int32   `json:"total"`
}

// OrderBookWire is the §6 orderbook shape.
type OrderBookWire struct {
	Bids    [15]PriceLevelWire `json:"bids"`
	Asks    [15]PriceLevelWire `json:"asks"`
	BestBid float64            `json:"bestBid"`
	BestAsk float64            `json:"bestAsk"`
	Spread  float64            `json:"spread"`
}

// StatsWire is the §6 stats shape (SessionStats plus echoed controls).
type StatsWire struct {
	CurrentPrice               float64 `json:"currentPrice"`
	OpenPrice                  float64 `json:"openPrice"`
	HighPrice                  float64 `json:"highPrice"`
	LowPrice                   float64 `json:"lowPrice"`
	TotalVolume                float64 `json:"totalVolume"`
	TotalTrades                int64   `json:"totalTrades"`
	ChangePercentage           float64 `json:"changePercentage"`
	Symbol                     string  `json:"symbol"`
	Sentiment                  string  `json:"sentiment"`
	Intensity                  string  `json:"intensity"`
	Paused                     bool    `json:"paused"`
	NewsShockEnabled           bool    `json:"newsShockEnabled"`
	NewsShockCooldown          int64   `json:"newsShockCooldown"`
	NewsShockCooldownRemaining int64   `json:"newsShockCooldownRemaining"`
	NewsShockActiveRemaining   int64   `json:"newsShockActiveRemaining"`
}

// PriceWire is the §6 price shape.
type PriceWire struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// CandleWire is the §3/§6 Candle shape.
type CandleWire struct {
	TimestampMs int64   `json:"timestampMs"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	Trades      int32   `json:"trades"`
}

// CompletedCandleWire pairs a just-completed candle with its timeframe.
type CompletedCandleWire struct {
	Timeframe int        `json:"timeframe"`
	Candle    CandleWire `json:"candle"`
}

// TradeWire is the §3/§6 Trade shape.
type TradeWire struct {
	ID          int64   `json:"id"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Side        string  `json:"side"`
	TimestampMs int64   `json:"timestampMs"`
}

// TickData is the payload of a "tick" server message.
type TickData struct {
	Orderbook        OrderBookWire          `json:"orderbook"`
	Stats            StatsWire              `json:"stats"`
	Price            PriceWire              `json:"price"`
	CurrentCandles   map[string]*CandleWire `json:"currentCandles"`
	CompletedCandles []CompletedCandleWire  `json:"completedCandles"`
	Trade            *TradeWire             `json:"trade,omitempty"`
}

// CandleHistoryData is the payload of a "candleHistory" server message.
type CandleHistoryData struct {
	Timeframe int          `json:"timeframe"`
	Candles   []CandleWire `json:"candles"`
	Current   *CandleWire  `json:"current"`
}

