package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trader_market/internal/domain"
	"trader_market/internal/domain/entity"
	"trader_market/internal/domain/service/pricing"
	"trader_market/internal/infrastructure/store"
	"trader_market/internal/worker"
	"trader_market/pkg/errcodes"
)

const cashID = "currency-cash"

func newMarket() *store.MarketStore {
	s := store.New()
	s.SetPrices(map[string]float64{"knife": 1000})
	s.AddVendor(&entity.Vendor{
		ID:   "v1",
		Name: "Dockside Trader",
		Assortment: []*entity.AssortmentEntry{
			{
				ItemID:  "knife",
				OfferID: "offer-1",
				Offers:  []*entity.TradeOffer{{CounterpartID: cashID, Quantity: 1}},
			},
		},
	})

	return s
}

func newEngine(s *store.MarketStore, interval time.Duration) *pricing.Engine {
	return pricing.NewEngine(pricing.Settings{
		Enabled:        true,
		VendorIDs:      []string{"v1"},
		MinMultiplier:  1,
		MaxMultiplier:  1,
		PriceRounding:  pricing.RoundNearest,
		CurrencyRound:  pricing.RoundNearest,
		CashOnly:       true,
		RetainBaseline: true,
		Interval:       interval,
		BaseCurrency:   "cash",
		Currencies:     map[string]string{"cash": cashID},
		Seed:           42,
	}, s)
}

func TestPriceCyclerRunOnce(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := newMarket()
	cycler := worker.NewPriceCycler(newEngine(s, 0))

	report, err := cycler.RunOnce(ctx)
	rq.NoError(err)
	rq.Equal(uint64(1), report.Cycle)
	rq.Equal(1, report.OffersUpdated)

	vendor, _ := s.Vendor("v1")
	rq.Equal(int64(1000), vendor.Assortment[0].Offers[0].Quantity)

	last, ok := cycler.LastReport()
	rq.True(ok)
	rq.Equal(report, last)
}

func TestPriceCyclerSingleRunWithoutInterval(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cycler := worker.NewPriceCycler(newEngine(newMarket(), 0))

	// Interval 0 disables repetition: Run returns after the first cycle.
	rq.NoError(cycler.Run(ctx))

	report, ok := cycler.LastReport()
	rq.True(ok)
	rq.Equal(uint64(1), report.Cycle)
}

func TestPriceCyclerRepeats(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cycler := worker.NewPriceCycler(newEngine(newMarket(), time.Hour)).
		WithInterval(20 * time.Millisecond)

	rq.NoError(cycler.Start(ctx))
	rq.True(cycler.IsRunning())

	rq.Eventually(func() bool {
		report, ok := cycler.LastReport()
		return ok && report.Cycle >= 3
	}, 2*time.Second, 10*time.Millisecond)

	cycler.Stop()
	rq.False(cycler.IsRunning())
}

func TestPriceCyclerRunReportsRunning(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cycler := worker.NewPriceCycler(newEngine(newMarket(), time.Hour)).
		WithInterval(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- cycler.Run(ctx) }()

	// Driving Run directly must report running just like Start does.
	rq.Eventually(func() bool {
		report, ok := cycler.LastReport()
		return ok && report.Cycle >= 2 && cycler.IsRunning()
	}, 2*time.Second, 10*time.Millisecond)

	err := cycler.Run(ctx)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.CyclerAlreadyRunning, code)

	cancel()
	rq.ErrorIs(<-done, context.Canceled)
	rq.False(cycler.IsRunning())
}

func TestPriceCyclerStartReplacesRunningLoop(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	cycler := worker.NewPriceCycler(newEngine(newMarket(), time.Hour))

	rq.NoError(cycler.Start(ctx))
	rq.NoError(cycler.Start(ctx))
	rq.True(cycler.IsRunning())

	cycler.Stop()
	rq.False(cycler.IsRunning())
}

func TestPriceCyclerStopIsIdempotent(t *testing.T) {
	cycler := worker.NewPriceCycler(newEngine(newMarket(), time.Hour))

	cycler.Stop()
	cycler.Stop()
}

func TestPriceCyclerContextCancellation(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())

	cycler := worker.NewPriceCycler(newEngine(newMarket(), time.Hour))
	rq.NoError(cycler.Start(ctx))

	cancel()

	rq.Eventually(func() bool { return !cycler.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}
