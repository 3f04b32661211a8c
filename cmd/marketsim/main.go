package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ndrandal/feed-simulator/go-feed/internal/config"
	"github.com/ndrandal/feed-simulator/go-feed/internal/httpapi"
	"github.com/ndrandal/feed-simulator/go-feed/internal/metrics"
	"github.com/ndrandal/feed-simulator/go-feed/internal/session"
	"github.com/ndrandal/feed-simulator/go-feed/internal/wire"
)

func main() {
	v := viper.New()
	root := &cobra.Command{
		Use:   "marketsim",
		Short: "Real-time sentiment-driven market microstructure simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(config.Load(v))
		},
	}
	config.Bind(root, v)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	metrics.Register()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	mux := session.NewMultiplexer(log, cfg.Seed)
	defer mux.Close()

	if cfg.AutoStart {
		log.Info("auto-start requested; each connecting session will be started with these defaults",
			zap.String("sentiment", cfg.Sentiment),
			zap.String("intensity", cfg.Intensity),
			zap.Float64("spread", cfg.Spread),
			zap.Float64("speed", cfg.Speed))
		mux.SetAutoStart(&wire.StartConfig{
			Sentiment: cfg.Sentiment,
			Intensity: cfg.Intensity,
			Spread:    cfg.Spread,
			Speed:     cfg.Speed,
		})
	}

	admin := httpapi.NewServer(statsAdapter{mux})

	httpMux := http.NewServeMux()
	httpMux.Handle("/feed", mux)
	httpMux.Handle("/", admin.Router())

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: httpMux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("market simulator listening",
		zap.String("ws", "ws://"+addr+"/feed"),
		zap.String("healthz", "http://"+addr+"/healthz"),
		zap.String("metrics", "http://"+addr+"/metrics"))

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("market simulator stopped")
	return nil
}

// statsAdapter bridges the session package's internal Stats shape to
// httpapi's StatsProvider interface, keeping the two packages decoupled.
type statsAdapter struct {
	mux *session.Multiplexer
}

func (a statsAdapter) Stats() httpapi.StatsSnapshot {
	s := a.mux.Stats()
	return httpapi.StatsSnapshot{
		ActiveSessions:  s.ActiveSessions,
		SessionsCreated: s.SessionsCreated,
		TicksTotal:      s.TicksTotal,
		TradesTotal:     s.TradesTotal,
		ShocksTotal:     s.ShocksTotal,
	}
}
