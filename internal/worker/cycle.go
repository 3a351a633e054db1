package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"

	"trader_market/internal/domain"
	"trader_market/internal/domain/entity"
	"trader_market/internal/domain/service/pricing"
	"trader_market/pkg/contextx"
	"trader_market/pkg/errcodes"
	"trader_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// PriceCycler runs the pricing engine once immediately and then on a fixed
// interval. A failing cycle is logged and never cancels future repetitions;
// stopping is external via Stop or context cancellation.
type PriceCycler struct {
	engine   *pricing.Engine
	interval time.Duration

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup

	lastReport *entity.CycleReport
}

func NewPriceCycler(engine *pricing.Engine) *PriceCycler {
	return &PriceCycler{
		engine:   engine,
		interval: engine.Interval(),
	}
}

func (w *PriceCycler) WithInterval(interval time.Duration) *PriceCycler {
	w.interval = interval
	return w
}

// Start launches the cycle loop in the background. Calling Start while a loop
// is already running replaces it: the previous loop is stopped first, so only
// one repetition schedule ever exists.
func (w *PriceCycler) Start(ctx context.Context) error {
	w.Stop()

	cycleCtx, cancel := context.WithCancel(ctx)

	if err := w.markRunning(cancel); err != nil {
		cancel()
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.markStopped()

		if err := w.run(cycleCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("price cycler stopped", logx.Error(err))
		}
	}()

	return nil
}

// Stop cancels the running loop and waits for it to finish.
func (w *PriceCycler) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *PriceCycler) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

// Run executes the first cycle immediately, then repeats every interval until
// the context is cancelled. An interval of 0 disables repetition. The running
// flag is owned here, so IsRunning stays truthful whether the loop was
// launched via Start or driven directly by the caller.
func (w *PriceCycler) Run(ctx context.Context) error {
	if err := w.markRunning(nil); err != nil {
		return err
	}
	defer w.markStopped()

	return w.run(ctx)
}

func (w *PriceCycler) markRunning(cancel context.CancelFunc) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return domain.NewError(errcodes.CyclerAlreadyRunning, "cycler is already running")
	}

	w.isRunning = true
	w.cancelFunc = cancel

	return nil
}

func (w *PriceCycler) markStopped() {
	w.mu.Lock()
	w.isRunning = false
	w.cancelFunc = nil
	w.mu.Unlock()
}

func (w *PriceCycler) run(ctx context.Context) error {
	logger(ctx).Info("price cycler started", logx.Stringer(logx.FieldInterval, w.interval))

	w.cycle(ctx)

	if w.interval <= 0 {
		logger(ctx).Info("repetition disabled, single cycle done")
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("price cycler stopped")
			return ctx.Err()
		case <-ticker.C:
			w.cycle(ctx)
		}
	}
}

// RunOnce triggers a single cycle on demand and returns its report.
func (w *PriceCycler) RunOnce(ctx context.Context) (entity.CycleReport, error) {
	return w.runCycle(ctx)
}

// LastReport returns the most recent cycle report, if any cycle has finished.
func (w *PriceCycler) LastReport() (entity.CycleReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastReport == nil {
		return entity.CycleReport{}, false
	}

	return *w.lastReport, true
}

// cycle is the top-level failure boundary: whatever goes wrong inside one
// cycle is logged and the ticker keeps running.
func (w *PriceCycler) cycle(ctx context.Context) {
	if _, err := w.runCycle(ctx); err != nil {
		metricCycleFailuresTotal.Inc()

		logger(ctx).Error("price cycle failed", logx.Error(err))
	}
}

func (w *PriceCycler) runCycle(ctx context.Context) (report entity.CycleReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("cycle panic: %v", rec)
		}
	}()

	ctx = contextx.WithTraceID(ctx, contextx.TraceID(xid.New().String()))

	report, err = w.engine.RunCycle(ctx)
	if err != nil {
		return entity.CycleReport{}, fmt.Errorf("engine.RunCycle: %w", err)
	}

	w.mu.Lock()
	w.lastReport = &report
	w.mu.Unlock()

	metricCyclesTotal.Inc()
	metricOffersUpdatedTotal.Add(float64(report.OffersUpdated))
	metricVendorFailuresTotal.Add(float64(report.VendorsFailed))

	return report, nil
}
