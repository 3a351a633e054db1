package pricing

import (
	"context"
	"log/slog"
	"math"

	"github.com/patrickmn/go-cache"

	"trader_market/pkg/logx"
)

// Converter turns a base-currency price into a target currency unit using the
// currency item's own reference price as the exchange rate. Rates are cached
// lazily and never invalidated during a run, unavailable ones included.
type Converter struct {
	resolver *Resolver
	rounding Rounding
	rates    *cache.Cache
}

type cachedRate struct {
	Rate float64
	OK   bool
}

func NewConverter(resolver *Resolver, rounding Rounding) *Converter {
	return &Converter{
		resolver: resolver,
		rounding: rounding,
		rates:    cache.New(cache.NoExpiration, 0),
	}
}

// Convert returns the price expressed in the target currency, or false when
// the currency has no usable exchange rate.
func (c *Converter) Convert(ctx context.Context, price float64, currencyID string) (float64, bool) {
	rate, ok := c.rate(ctx, currencyID)
	if !ok {
		return 0, false
	}

	converted := price / rate
	if math.IsInf(converted, 0) || math.IsNaN(converted) {
		logger(ctx).Warn("degenerate exchange rate",
			slog.String(logx.FieldCurrencyID, currencyID),
			slog.Float64("rate", rate),
		)

		return 0, false
	}

	return c.rounding.Apply(converted), true
}

func (c *Converter) rate(ctx context.Context, currencyID string) (float64, bool) {
	if hit, ok := c.rates.Get(currencyID); ok {
		cached := hit.(cachedRate)
		return cached.Rate, cached.OK
	}

	rate, ok := c.resolver.Resolve(ctx, currencyID)
	if ok && rate <= 0 {
		ok = false
	}

	c.rates.Set(currencyID, cachedRate{Rate: rate, OK: ok}, cache.NoExpiration)

	return rate, ok
}

// Reset drops all cached exchange rates.
func (c *Converter) Reset() {
	c.rates.Flush()
}
