// Package metrics exposes prometheus instrumentation for the simulator's
// admin surface (SPEC_FULL.md ambient stack).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SessionsActive tracks the number of live (non-terminated) sessions.
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "marketsim",
		Name:      "sessions_active",
		Help:      "Number of currently connected simulation sessions.",
	})

	// TicksTotal counts ticks actually emitted (Running sessions only).
	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "marketsim",
		Name:      "ticks_total",
		Help:      "Total number of ticks emitted across all sessions.",
	})

	// TradesTotal counts synthetic trades generated.
	TradesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "marketsim",
		Name:      "trades_total",
		Help:      "Total number of synthetic trades generated across all sessions.",
	})

	// ShocksTotal counts news-shock events fired.
	ShocksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "marketsim",
		Name:      "news_shocks_total",
		Help:      "Total number of news-shock events fired across all sessions.",
	})
)

// Register adds every collector to the default registry. Called once at
// startup; a second call would panic on duplicate registration, which is
// intentional (mirrors the teacher's fail-fast wiring).
func Register() {
	prometheus.MustRegister(SessionsActive, TicksTotal, TradesTotal, ShocksTotal)
}
