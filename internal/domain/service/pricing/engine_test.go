package pricing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"trader_market/internal/domain/entity"
	"trader_market/internal/domain/service/pricing"
	"trader_market/internal/infrastructure/store"
)

func engineSettings(mutate func(*pricing.Settings)) pricing.Settings {
	s := pricing.Settings{
		Enabled:        true,
		VendorIDs:      []string{"v1"},
		MinMultiplier:  1,
		MaxMultiplier:  1,
		PriceRounding:  pricing.RoundNearest,
		CurrencyRound:  pricing.RoundNearest,
		CashOnly:       true,
		RetainBaseline: true,
		BaseCurrency:   "cash",
		Currencies:     map[string]string{"cash": baseCurrencyID, "euro": euroCurrencyID},
		Seed:           42,
	}

	if mutate != nil {
		mutate(&s)
	}

	return s
}

func marketWithOneVendor(price float64) *store.MarketStore {
	s := store.New()
	s.SetPrices(map[string]float64{"knife": price})
	s.AddVendor(&entity.Vendor{
		ID:   "v1",
		Name: "Dockside Trader",
		Assortment: []*entity.AssortmentEntry{
			{
				ItemID:  "knife",
				OfferID: "offer-1",
				Offers:  []*entity.TradeOffer{{CounterpartID: baseCurrencyID, Quantity: 1}},
			},
		},
	})

	return s
}

func TestEngineIdentityMultiplierWritesReferencePrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)
	engine := pricing.NewEngine(engineSettings(nil), s)

	report, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.Vendors)
	rq.Equal(1, report.OffersUpdated)

	vendor, ok := s.Vendor("v1")
	rq.True(ok)
	rq.Equal(int64(1000), vendor.Assortment[0].Offers[0].Quantity)
}

func TestEngineEqualAbsoluteBoundsPinPrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)

	settings := engineSettings(func(s *pricing.Settings) {
		s.MinMultiplier = 0.1
		s.MaxMultiplier = 3
		s.MinAbsolute = 500
		s.MaxAbsolute = 500
	})

	engine := pricing.NewEngine(settings, s)

	for i := 0; i < 5; i++ {
		_, err := engine.RunCycle(ctx)
		rq.NoError(err)

		vendor, _ := s.Vendor("v1")
		rq.Equal(int64(500), vendor.Assortment[0].Offers[0].Quantity)
	}
}

func TestEngineBaselineRetention(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)
	engine := pricing.NewEngine(engineSettings(nil), s)

	_, err := engine.RunCycle(ctx)
	rq.NoError(err)

	before := engine.Baseline()
	rq.Equal(map[string]float64{"knife": 1000}, before)

	// Live reference prices move, but the frozen baseline stays authoritative.
	s.SetPrices(map[string]float64{"knife": 9999})

	_, err = engine.RunCycle(ctx)
	rq.NoError(err)

	rq.Equal(before, engine.Baseline())

	vendor, _ := s.Vendor("v1")
	rq.Equal(int64(1000), vendor.Assortment[0].Offers[0].Quantity)
}

func TestEngineBaselineRebuildWithoutRetention(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)

	engine := pricing.NewEngine(engineSettings(func(s *pricing.Settings) {
		s.RetainBaseline = false
	}), s)

	_, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(map[string]float64{"knife": 1000}, engine.Baseline())

	// The resolver memo still answers 1000 after the store moves: reference
	// data is treated as load-time-immutable, so the rebuilt baseline is
	// unchanged as well.
	s.SetPrices(map[string]float64{"knife": 9999})

	_, err = engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(map[string]float64{"knife": 1000}, engine.Baseline())
}

func TestEngineMissingVendorDoesNotAbort(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)

	engine := pricing.NewEngine(engineSettings(func(s *pricing.Settings) {
		s.VendorIDs = []string{"ghost", "v1"}
	}), s)

	report, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(2, report.Vendors)
	rq.Equal(1, report.VendorsMissing)
	rq.Equal(1, report.OffersUpdated)
}

func TestEngineDisabledIsInert(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)

	engine := pricing.NewEngine(engineSettings(func(s *pricing.Settings) {
		s.Enabled = false
	}), s)

	report, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Zero(report.Cycle)
	rq.Zero(report.OffersUpdated)

	vendor, _ := s.Vendor("v1")
	rq.Equal(int64(1), vendor.Assortment[0].Offers[0].Quantity)
}

func TestEngineSkipsEntriesAndItemsWithoutBaseline(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := store.New()
	s.SetPrices(map[string]float64{"knife": 1000})
	s.AddVendor(&entity.Vendor{
		ID:   "v1",
		Name: "Dockside Trader",
		Assortment: []*entity.AssortmentEntry{
			{ItemID: "", OfferID: "offer-0"},
			{ItemID: "knife", OfferID: ""},
			{
				ItemID:  "unpriced",
				OfferID: "offer-2",
				Offers:  []*entity.TradeOffer{{CounterpartID: baseCurrencyID, Quantity: 1}},
			},
			{
				ItemID:  "knife",
				OfferID: "offer-3",
				Offers:  []*entity.TradeOffer{{CounterpartID: baseCurrencyID, Quantity: 1}},
			},
		},
	})

	engine := pricing.NewEngine(engineSettings(nil), s)

	report, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.OffersUpdated)
	rq.Equal(3, report.OffersSkipped)
}

func TestEngineAutoDiscoveryFallsBackToConfiguredList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := store.New()
	s.SetPrices(map[string]float64{"knife": 1000})
	s.AddVendor(&entity.Vendor{
		ID:   "v1",
		Name: "Fence",
		Assortment: []*entity.AssortmentEntry{
			{
				ItemID:  "knife",
				OfferID: "offer-1",
				Offers:  []*entity.TradeOffer{{CounterpartID: baseCurrencyID, Quantity: 1}},
			},
		},
	})

	engine := pricing.NewEngine(engineSettings(func(s *pricing.Settings) {
		s.AutoDiscover = true
	}), s)

	report, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(1, report.Vendors)
	rq.Equal(1, report.OffersUpdated)
}

func TestEngineDeterministicAcrossInstances(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	settings := engineSettings(func(s *pricing.Settings) {
		s.MinMultiplier = 0.5
		s.MaxMultiplier = 1.5
	})

	run := func() int64 {
		s := marketWithOneVendor(1000)
		engine := pricing.NewEngine(settings, s)

		_, err := engine.RunCycle(ctx)
		rq.NoError(err)

		vendor, _ := s.Vendor("v1")

		return vendor.Assortment[0].Offers[0].Quantity
	}

	rq.Equal(run(), run())
}

func TestEngineResetCaches(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	s := marketWithOneVendor(1000)
	engine := pricing.NewEngine(engineSettings(nil), s)

	_, err := engine.RunCycle(ctx)
	rq.NoError(err)
	rq.NotEmpty(engine.Baseline())

	engine.ResetCaches()
	rq.Empty(engine.Baseline())

	// After a reset the next cycle rebuilds the baseline from the store.
	s.SetPrices(map[string]float64{"knife": 2000})

	_, err = engine.RunCycle(ctx)
	rq.NoError(err)
	rq.Equal(map[string]float64{"knife": 2000}, engine.Baseline())
}
