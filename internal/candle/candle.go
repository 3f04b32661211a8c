// Package candle aggregates a session's price/volume stream into OHLCV
// candles across five fixed timeframes, each with bounded retention
// (spec §4.4).
package candle

// Periods are the five simultaneous timeframes, in seconds.
var Periods = [5]int{1, 5, 30, 60, 300}

// maxRetained is the per-period completed-candle ring capacity.
const maxRetained = 500

// Candle is one OHLCV bar (spec §3).
type Candle struct {
	TimestampMs int64
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	Trades      int32
}

// ring is a fixed-capacity FIFO that discards the oldest entry on overflow
// (spec §9: "a fixed-capacity ring buffer per period").
type ring struct {
	buf   []Candle
	start int
}

func newRing() *ring {
	return &ring{buf: make([]Candle, 0, maxRetained)}
}

func (r *ring) push(c Candle) {
	if len(r.buf) < maxRetained {
		r.buf = append(r.buf, c)
		return
	}
	r.buf[r.start] = c
	r.start = (r.start + 1) % maxRetained
}

// ordered returns the ring's contents oldest-first, as a fresh copy.
func (r *ring) ordered() []Candle {
	out := make([]Candle, len(r.buf))
	for i := range r.buf {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

func (r *ring) reset() {
	r.buf = r.buf[:0]
	r.start = 0
}

// period is one timeframe's aggregation state.
type period struct {
	seconds int
	partial *Candle
	ring    *ring
}

// Completed names one candle closed by an Ingest call.
type Completed struct {
	Period int
	Candle Candle
}

// Manager runs five independent per-period aggregators (spec §4.4).
type Manager struct {
	periods map[int]*period
}

// NewManager creates a CandleManager with all five timeframes empty.
func NewManager() *Manager {
	m := &Manager{periods: make(map[int]*period, len(Periods))}
	for _, p := range Periods {
		m.periods[p] = &period{seconds: p, ring: newRing()}
	}
	return m
}

// Ingest feeds one (timestamp, price, volume) sample into every period and
// returns the post-ingest partial for each, plus any candles this call
// just completed.
func (m *Manager) Ingest(timestampMs int64, price, volume float64) (current map[int]*Candle, completed []Completed) {
	current = make(map[int]*Candle, len(Periods))

	for _, secs := range Periods {
		p := m.periods[secs]
		periodMs := int64(secs) * 1000
		slot := (timestampMs / periodMs) * periodMs

		if p.partial == nil || p.partial.TimestampMs != slot {
			if p.partial != nil {
				p.ring.push(*p.partial)
				completed = append(completed, Completed{Period: secs, Candle: *p.partial})
			}
			trades := int32(0)
			if volume > 0 {
				trades = 1
			}
			p.partial = &Candle{
				TimestampMs: slot,
				Open:        price,
				High:        price,
				Low:         price,
				Close:       price,
				Volume:      volume,
				Trades:      trades,
			}
		} else {
			if price > p.partial.High {
				p.partial.High = price
			}
			if price < p.partial.Low {
				p.partial.Low = price
			}
			p.partial.Close = price
			p.partial.Volume += volume
			if volume > 0 {
				p.partial.Trades++
			}
		}

		c := *p.partial
		current[secs] = &c
	}

	return current, completed
}

// History returns a copy of the completed-candle FIFO for a period
// (oldest first) and the current partial, if any. O(retained).
func (m *Manager) History(periodSeconds int) (completed []Candle, partial *Candle) {
	p, ok := m.periods[periodSeconds]
	if !ok {
		return nil, nil
	}
	completed = p.ring.ordered()
	if p.partial != nil {
		c := *p.partial
		partial = &c
	}
	return completed, partial
}

// Reset discards all partials and completed history across every period
// (spec §4.4/§4.5); the next Ingest behaves as on a freshly built Manager.
func (m *Manager) Reset() {
	for _, p := range m.periods {
		p.partial = nil
		p.ring.reset()
	}
}
