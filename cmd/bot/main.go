package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ivanoskov/atm_bot/internal/bot"
	"github.com/ivanoskov/atm_bot/internal/config"
	"github.com/ivanoskov/atm_bot/internal/logger"
	"github.com/ivanoskov/atm_bot/internal/repository"
	"github.com/ivanoskov/atm_bot/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	states, err := repository.NewStateStore(ctx, cfg, l)
	if err != nil {
		l.Fatal("failed to create state store", zap.Error(err))
	}

	predictor, err := service.NewPredictionClient(cfg.PredictorURL, cfg.HTTPTimeout, l)
	if err != nil {
		l.Fatal("failed to create prediction client", zap.Error(err))
	}

	b, err := bot.NewBot(cfg, predictor, states, l)
	if err != nil {
		l.Fatal("failed to create bot", zap.Error(err))
	}

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, l)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := b.Start(ctx); err != nil {
		l.Fatal("bot stopped with error", zap.Error(err))
	}
}

func serveMetrics(addr string, l *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		l.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
