// Package server exposes the host-side status surface: cycle reports and a
// manual cycle trigger. The pricing core itself has no network API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"trader_market/internal/domain/service/pricing"
	"trader_market/internal/worker"
	"trader_market/pkg/contextx"
	"trader_market/pkg/logx"
	"trader_market/pkg/middlewarex"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Server struct {
	listenAddress string
	engine        *pricing.Engine
	cycler        *worker.PriceCycler
}

func NewServer(listenAddress string, engine *pricing.Engine, cycler *worker.PriceCycler) Server {
	return Server{
		listenAddress: listenAddress,
		engine:        engine,
		cycler:        cycler,
	}
}

func (s Server) Run(ctx context.Context) error {
	r := chi.NewRouter()

	r.Use(middlewarex.TraceID)
	r.Use(middlewarex.Logger)
	r.Use(middlewarex.Recovery)

	s.RegisterRoutes(r)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           r,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("status server started", "address", s.listenAddress)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("status server stopped")

	return nil
}
