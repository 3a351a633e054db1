package pricing

import (
	"context"
	"log/slog"

	"github.com/patrickmn/go-cache"

	"trader_market/pkg/logx"
)

// Resolver looks up the canonical price of an item: the primary price view
// first, the handbook view on miss. Results, including misses, are memoized
// for the lifetime of the process since reference data is load-time-immutable.
type Resolver struct {
	primary  PriceView
	handbook PriceView
	memo     *cache.Cache
}

type cachedPrice struct {
	Price float64
	OK    bool
}

func NewResolver(primary, handbook PriceView) *Resolver {
	return &Resolver{
		primary:  primary,
		handbook: handbook,
		memo:     cache.New(cache.NoExpiration, 0),
	}
}

// Resolve returns a strictly positive canonical price for the item, or false
// when none of the reference tables carries one. A second call for the same
// identifier never re-reads the tables.
func (r *Resolver) Resolve(ctx context.Context, itemID string) (float64, bool) {
	if hit, ok := r.memo.Get(itemID); ok {
		cached := hit.(cachedPrice)
		return cached.Price, cached.OK
	}

	price, ok := r.lookup(itemID)
	if !ok {
		logger(ctx).Debug("no reference price", slog.String(logx.FieldItemID, itemID))
	}

	r.memo.Set(itemID, cachedPrice{Price: price, OK: ok}, cache.NoExpiration)

	return price, ok
}

func (r *Resolver) lookup(itemID string) (float64, bool) {
	if price, ok := r.primary.Price(itemID); ok && price > 0 {
		return price, true
	}

	if r.handbook != nil {
		if price, ok := r.handbook.Price(itemID); ok && price > 0 {
			return price, true
		}
	}

	return 0, false
}

// Reset drops all memoized lookups.
func (r *Resolver) Reset() {
	r.memo.Flush()
}
