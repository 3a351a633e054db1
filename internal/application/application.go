package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"trader_market/internal/config"
	"trader_market/internal/domain/service/pricing"
	"trader_market/internal/infrastructure/store"
	"trader_market/internal/server"
	"trader_market/internal/worker"
	"trader_market/pkg/contextx"
	"trader_market/pkg/logx"
	"trader_market/pkg/metrics"
	"trader_market/pkg/probe"
)

func Run(ctx context.Context, log *slog.Logger) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log = log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	ctx = contextx.WithLogger(ctx, log)

	log.Info("configuration loaded",
		slog.Uint64(logx.FieldSeed, uint64(cfg.Pricing.Seed)),
		slog.Int("interval-seconds", cfg.Pricing.IntervalSeconds),
		slog.Bool("cash-only", cfg.Pricing.CashOnly),
		slog.Bool("auto-discover", cfg.Pricing.AutoDiscover),
	)

	// 2. Market store
	marketStore, err := store.Load(ctx, cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("store load: %w", err)
	}

	// 3. Pricing engine + cycler
	engine := pricing.NewEngine(cfg.Pricing.Settings(), marketStore)
	cycler := worker.NewPriceCycler(engine)

	// 4. Servers
	statusServer := server.NewServer(cfg.Server.StatusAddress, engine, cycler)
	probeServer := probe.NewServer(cfg.Server.ProbeAddress, probe.Options{
		Name:    cfg.App.Name,
		Version: cfg.App.Version,
	})
	metricsServer := metrics.NewPrometheusServer(cfg.Server.MetricsAddress)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := cycler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("cycler.Run: %w", err)
		}

		return nil
	})

	g.Go(func() error { return statusServer.Run(ctx) })
	g.Go(func() error { return probeServer.Run(ctx) })
	g.Go(func() error { return metricsServer.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("g.Wait: %w", err)
	}

	log.Info("application stopping...")

	return nil
}
