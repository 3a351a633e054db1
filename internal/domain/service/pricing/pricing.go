// Package pricing implements the vendor price-randomization engine: layered
// price/baseline/currency caches, the deterministic multiplier algorithm,
// currency conversion, trade-offer mutation and vendor auto-discovery.
package pricing

import (
	"math"
	"time"

	"trader_market/internal/domain/entity"
	"trader_market/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// PriceView is a canonical identifier -> price lookup. Store adapters
// normalize whatever table shape they hold into this view.
type PriceView interface {
	Price(id string) (float64, bool)
}

// Store is the external market data the engine reads and mutates in place.
type Store interface {
	Prices() PriceView
	Handbook() PriceView
	Vendor(id string) (*entity.Vendor, bool)
	Vendors() []*entity.Vendor
}

type Rounding string

const (
	RoundNearest Rounding = "nearest"
	RoundFloor   Rounding = "floor"
	RoundCeil    Rounding = "ceil"
)

func (r Rounding) Apply(v float64) float64 {
	switch r {
	case RoundFloor:
		return math.Floor(v)
	case RoundCeil:
		return math.Ceil(v)
	case RoundNearest:
		return math.Round(v)
	}

	return math.Round(v)
}

// Settings is the validated engine configuration, already normalized by the
// config loader: MinMultiplier <= MaxMultiplier, rounding modes valid,
// absolute bounds non-negative with 0 meaning unbounded.
type Settings struct {
	Enabled        bool
	VendorIDs      []string
	AutoDiscover   bool
	MinMultiplier  float64
	MaxMultiplier  float64
	MinAbsolute    float64
	MaxAbsolute    float64
	PriceRounding  Rounding
	CurrencyRound  Rounding
	CashOnly       bool
	RetainBaseline bool
	Interval       time.Duration
	BaseCurrency   string
	Currencies     map[string]string
	Seed           uint32
}

// BaseCurrencyID resolves the symbolic base currency to its item identifier.
func (s Settings) BaseCurrencyID() string {
	return s.Currencies[s.BaseCurrency]
}
