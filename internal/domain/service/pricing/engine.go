package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/samber/lo"

	"trader_market/internal/domain/entity"
	"trader_market/pkg/logx"
)

// Engine owns all mutable pricing state: the reference price cache, the
// currency rate cache, the frozen baseline map and the deterministic
// generator. One Engine serves one store for the lifetime of the process.
type Engine struct {
	mu       sync.Mutex
	settings Settings
	store    Store

	generator  *Generator
	resolver   *Resolver
	converter  *Converter
	randomizer *Randomizer
	updater    *OfferUpdater
	discovery  Discovery

	baseline map[string]float64
	cycles   uint64
}

func NewEngine(settings Settings, store Store) *Engine {
	generator := NewGenerator(settings.Seed)
	resolver := NewResolver(store.Prices(), store.Handbook())
	converter := NewConverter(resolver, settings.CurrencyRound)

	return &Engine{
		settings:   settings,
		store:      store,
		generator:  generator,
		resolver:   resolver,
		converter:  converter,
		randomizer: NewRandomizer(generator, settings),
		updater:    NewOfferUpdater(converter, settings),
		discovery:  NewDiscovery(),
		baseline:   make(map[string]float64),
	}
}

// RunCycle executes one full price-randomization pass over the active vendor
// set. A failing vendor never aborts the cycle; its failure is logged and the
// remaining vendors are processed.
func (e *Engine) RunCycle(ctx context.Context) (entity.CycleReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.settings.Enabled {
		logger(ctx).Info("pricing engine disabled, skipping cycle")
		return entity.CycleReport{}, nil
	}

	started := time.Now()
	e.cycles++

	report := entity.CycleReport{Cycle: e.cycles}

	vendorIDs := e.activeVendorIDs(ctx)
	e.buildBaseline(ctx, vendorIDs)

	for _, vendorID := range vendorIDs {
		e.processVendor(ctx, vendorID, &report)
	}

	report.Vendors = len(vendorIDs)
	report.Duration = time.Since(started)
	report.FinishedAt = time.Now()

	logger(ctx).Info("price cycle completed",
		slog.Uint64(logx.FieldCycle, report.Cycle),
		slog.Int("vendors", report.Vendors),
		slog.Int("offers-updated", report.OffersUpdated),
		slog.Int("offers-skipped", report.OffersSkipped),
		slog.Int("vendors-missing", report.VendorsMissing),
		slog.Int("vendors-failed", report.VendorsFailed),
		slog.Int64(logx.FieldDurationMs, report.Duration.Milliseconds()),
	)

	return report, nil
}

// activeVendorIDs prefers a non-empty auto-discovery result over the
// configured explicit list.
func (e *Engine) activeVendorIDs(ctx context.Context) []string {
	if e.settings.AutoDiscover {
		if ids := e.discovery.Match(e.store); len(ids) > 0 {
			logger(ctx).Debug("auto-discovered vendors", slog.Int("count", len(ids)))
			return ids
		}

		logger(ctx).Debug("auto-discovery found no vendors, using configured list")
	}

	return lo.Uniq(e.settings.VendorIDs)
}

// buildBaseline snapshots canonical prices for every item the target vendors
// currently carry. With retention on and a non-empty baseline the existing
// snapshot is authoritative and the call is a no-op; this is what keeps
// "original prices" stable while live offer quantities are overwritten every
// cycle.
func (e *Engine) buildBaseline(ctx context.Context, vendorIDs []string) {
	if e.settings.RetainBaseline && len(e.baseline) > 0 {
		return
	}

	e.baseline = make(map[string]float64)

	var vendors []*entity.Vendor

	for _, vendorID := range vendorIDs {
		vendor, ok := e.store.Vendor(vendorID)
		if !ok {
			logger(ctx).Warn("baseline: vendor not in store", slog.String(logx.FieldVendorID, vendorID))
			continue
		}

		vendors = append(vendors, vendor)
	}

	itemIDs := lo.Uniq(lo.FlatMap(vendors, func(v *entity.Vendor, _ int) []string {
		return v.ItemIDs()
	}))

	for _, itemID := range itemIDs {
		price, ok := e.resolver.Resolve(ctx, itemID)
		if !ok || price <= 0 {
			continue
		}

		e.baseline[itemID] = price
	}

	logger(ctx).Debug("baseline built", slog.Int("items", len(e.baseline)))
}

// processVendor recomputes prices for a single vendor. Panics are contained
// here so one broken vendor cannot take down the cycle.
func (e *Engine) processVendor(ctx context.Context, vendorID string, report *entity.CycleReport) {
	defer func() {
		if rec := recover(); rec != nil {
			report.VendorsFailed++

			logger(ctx).Error("vendor processing failed",
				slog.String(logx.FieldVendorID, vendorID),
				slog.Any(logx.FieldError, rec),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)
		}
	}()

	vendor, ok := e.store.Vendor(vendorID)
	if !ok {
		report.VendorsMissing++

		logger(ctx).Warn("vendor not in store", slog.String(logx.FieldVendorID, vendorID))

		return
	}

	for _, entry := range vendor.Assortment {
		if entry == nil || entry.ItemID == "" || entry.OfferID == "" {
			report.OffersSkipped++
			continue
		}

		baseline, ok := e.baseline[entry.ItemID]
		if !ok {
			report.OffersSkipped++
			continue
		}

		price := e.randomizer.Randomize(baseline)

		if e.updater.Update(ctx, entry.Offers, price) {
			report.OffersUpdated++
		} else {
			report.OffersSkipped++
		}
	}
}

// ActiveVendors resolves the vendor set the next cycle would process:
// the auto-discovery result when enabled and non-empty, else the configured
// explicit list.
func (e *Engine) ActiveVendors(ctx context.Context) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.activeVendorIDs(ctx)
}

// Baseline returns a copy of the current baseline map.
func (e *Engine) Baseline() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return lo.Assign(map[string]float64{}, e.baseline)
}

// Enabled reports whether the engine is configured to run.
func (e *Engine) Enabled() bool {
	return e.settings.Enabled
}

// Interval is the configured repetition period, 0 meaning run-once.
func (e *Engine) Interval() time.Duration {
	return e.settings.Interval
}

// ResetCaches drops the reference price cache, the rate cache and the
// baseline map, and rewinds the generator. Intended for tests and manual
// operational resets, not for the regular cycle path.
func (e *Engine) ResetCaches() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resolver.Reset()
	e.converter.Reset()
	e.baseline = make(map[string]float64)
	e.generator.Reset()
}

// String implements fmt.Stringer for log output.
func (e *Engine) String() string {
	return fmt.Sprintf("pricing.Engine(vendors=%d, interval=%s)", len(e.settings.VendorIDs), e.settings.Interval)
}
