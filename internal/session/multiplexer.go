package session

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ndrandal/feed-simulator/go-feed/internal/metrics"
	"github.com/ndrandal/feed-simulator/go-feed/internal/wire"
)

// tickInterval is the nominal 1x cadence every session's rate.Limiter is
// derived from: a session at speed s is admitted at most once every
// tickInterval/s.
const tickInterval = 100 * time.Millisecond

// maxSpeed is the fastest per-session speed spec §6 allows ("speed: number
// in [0.25, 2.0]").
const maxSpeed = 2.0

// pollInterval is how often the loop below polls every session's limiter.
// It must be at least as fine as the fastest configured speed's effective
// interval (tickInterval/maxSpeed = 50ms), or a session running faster than
// 1x would never get more than one admitted tick per global iteration no
// matter how its limiter is configured (spec §4.6: "effective inter-tick
// interval is 100ms/speed").
const pollInterval = tickInterval / maxSpeed

var upgrader = websocket.Upgrader{
	Subprotocols:    []string{"lws-minimal"},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// conn is one live session plus its pacing and transport state.
type conn struct {
	session *Session
	ws      *websocket.Conn
	limiter *rate.Limiter
	writeMu sync.Mutex

	// opMu serialises on_message handling against tick so that, per spec
	// §5, a session's on_message/tick/on_disconnect are never concurrent
	// with each other even though tickOne runs on its own goroutine to
	// keep sessions independent of one another.
	opMu sync.Mutex
}

// Multiplexer hosts every live session behind one shared tick loop (spec
// §4.6). The only shared mutable state across sessions is the monotonic
// id counter; each session's simulation state is otherwise fully isolated.
type Multiplexer struct {
	log  *zap.Logger
	seed int64

	nextID int64

	mu    sync.RWMutex
	conns map[int64]*conn

	autoStart atomic.Pointer[wire.StartConfig]

	sessionsCreated atomic.Int64
	ticksTotal      atomic.Int64
	tradesTotal     atomic.Int64
	shocksTotal     atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
}

// Stats is a point-in-time snapshot of the multiplexer's aggregate
// counters, served by internal/httpapi's "/stats" endpoint.
type Stats struct {
	ActiveSessions  int
	SessionsCreated int64
	TicksTotal      int64
	TradesTotal     int64
	ShocksTotal     int64
}

// Stats returns a snapshot of aggregate counters across every session
// this Multiplexer has ever hosted.
func (m *Multiplexer) Stats() Stats {
	m.mu.RLock()
	active := len(m.conns)
	m.mu.RUnlock()
	return Stats{
		ActiveSessions:  active,
		SessionsCreated: m.sessionsCreated.Load(),
		TicksTotal:      m.ticksTotal.Load(),
		TradesTotal:     m.tradesTotal.Load(),
		ShocksTotal:     m.shocksTotal.Load(),
	}
}

// SetAutoStart makes every newly connected session start immediately with
// cfg instead of waiting for a client "start" message (spec §6
// --auto-start flag).
func (m *Multiplexer) SetAutoStart(cfg *wire.StartConfig) {
	m.autoStart.Store(cfg)
}

// NewMultiplexer builds a Multiplexer ready to accept connections. A
// non-zero seed makes every session's RNG stream deterministic (derived
// from seed and the session id); zero derives each session's seed from
// the wall clock instead (spec §6 `--seed`/`-i`, 0 meaning random).
func NewMultiplexer(log *zap.Logger, seed int64) *Multiplexer {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Multiplexer{
		log:    log,
		seed:   seed,
		conns:  make(map[int64]*conn),
		ctx:    ctx,
		cancel: cancel,
	}
	go m.tickLoop()
	return m
}

// Close stops the tick loop and closes every live connection.
func (m *Multiplexer) Close() {
	m.cancel()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.conns {
		_ = c.ws.Close()
	}
}

// ServeHTTP upgrades the request to a websocket connection and runs the
// session's read pump until disconnect (spec §4.6: on_connect/on_message/
// on_disconnect).
func (m *Multiplexer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := atomic.AddInt64(&m.nextID, 1)
	if id < 0 {
		// spec §7: a wrapped/overflowed session id counter is a fatal
		// configuration fault, not a recoverable per-connection error.
		m.log.Fatal("session id counter overflowed")
	}

	seed := id ^ time.Now().UnixNano()
	if m.seed != 0 {
		seed = m.seed + id
	}
	sess := New(id, seed)
	c := &conn{
		session: sess,
		ws:      ws,
		limiter: rate.NewLimiter(rate.Every(tickInterval), 1),
	}

	m.mu.Lock()
	m.conns[id] = c
	m.mu.Unlock()
	metrics.SessionsActive.Inc()
	m.sessionsCreated.Add(1)

	m.log.Info("session connected", zap.Int64("session_id", id))

	if autoCfg := m.autoStart.Load(); autoCfg != nil {
		sess.Start(*autoCfg)
		c.limiter.SetLimit(rate.Every(time.Duration(float64(tickInterval) / sess.Speed())))
		c.send(wire.EncodeStarted())
	}

	m.readPump(c)
}

func (m *Multiplexer) removeConn(id int64) {
	m.mu.Lock()
	delete(m.conns, id)
	m.mu.Unlock()
}

// readPump handles on_message for one connection until on_disconnect.
func (m *Multiplexer) readPump(c *conn) {
	defer func() {
		m.removeConn(c.session.ID())
		_ = c.ws.Close()
		metrics.SessionsActive.Dec()
		m.log.Info("session disconnected", zap.Int64("session_id", c.session.ID()))
	}()

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		for _, msg := range wire.Decode(frame) {
			m.handleMessage(c, msg)
		}
	}
}

func (m *Multiplexer) handleMessage(c *conn, msg wire.Inbound) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	s := c.session
	switch msg.Type {
	case wire.InStart:
		if msg.Start != nil {
			s.Start(*msg.Start)
			c.limiter.SetLimit(rate.Every(time.Duration(float64(tickInterval) / s.Speed())))
			c.send(wire.EncodeStarted())
		}
	case wire.InSentiment:
		s.SetSentiment(msg.StringValue)
	case wire.InIntensity:
		s.SetIntensity(msg.StringValue)
	case wire.InSpread:
		s.SetSpread(msg.NumberValue)
	case wire.InSpeed:
		s.SetSpeed(msg.NumberValue)
		c.limiter.SetLimit(rate.Every(time.Duration(float64(tickInterval) / msg.NumberValue)))
	case wire.InPause:
		s.SetPause(msg.BoolValue)
	case wire.InNewsShock:
		s.SetNewsShockEnabled(msg.BoolValue)
	case wire.InReset:
		s.Reset()
		c.send(wire.EncodeSimulationReset())
		c.send(wire.EncodeCandleReset())
	case wire.InGetCandles:
		completed, partial := s.GetCandleHistory(msg.Timeframe)
		c.send(wire.EncodeCandleHistory(toCandleHistoryWire(msg.Timeframe, completed, partial)))
	case wire.InPing:
		// spec §5: a pong must be written before the session's next tick
		// bundle goes out; c.opMu (held for the duration of handleMessage)
		// excludes a concurrently scheduled tickOne for this connection.
		c.send(wire.EncodePong(msg.StringValue))
	}
}

func (c *conn) send(b []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.WriteMessage(websocket.TextMessage, b)
}

// tickLoop polls every session at pollInterval, each gated by its own
// per-connection rate.Limiter so that speed controls how often a session's
// ticks are actually accepted (spec §4.6/§9). The poll runs finer than the
// nominal 100ms cadence so sessions configured above 1x speed still get
// admitted more than once per 100ms; sessions at or below 1x are simply
// throttled back down by their own limiter.
func (m *Multiplexer) tickLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.mu.RLock()
			conns := make([]*conn, 0, len(m.conns))
			for _, c := range m.conns {
				conns = append(conns, c)
			}
			m.mu.RUnlock()

			nowMs := now.UnixMilli()
			for _, c := range conns {
				if !c.limiter.Allow() {
					continue
				}
				go m.tickOne(c, nowMs)
			}
		}
	}
}

func (m *Multiplexer) tickOne(c *conn, nowMs int64) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	bundle, ok := c.session.Tick(nowMs)
	if !ok {
		return
	}
	metrics.TicksTotal.Inc()
	m.ticksTotal.Add(1)
	if bundle.Trade != nil {
		metrics.TradesTotal.Inc()
		m.tradesTotal.Add(1)
	}
	if bundle.ShockFired {
		metrics.ShocksTotal.Inc()
		m.shocksTotal.Add(1)
	}
	c.send(wire.EncodeTick(toTickWire(bundle)))
}
