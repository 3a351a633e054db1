package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"trader_market/internal/domain/service/pricing"
)

// Pricing is the engine configuration. All invariants the engine relies on
// (multiplier ordering, valid rounding modes, resolved seed) are enforced
// here before the values reach the core.
type Pricing struct {
	Enabled          bool              `env:"PRICING_ENABLED" envDefault:"true"`
	VendorIDs        []string          `env:"PRICING_VENDOR_IDS" envSeparator:","`
	AutoDiscover     bool              `env:"PRICING_AUTO_DISCOVER" envDefault:"false"`
	MinMultiplier    float64           `env:"PRICING_MIN_MULTIPLIER" envDefault:"0.8" validate:"gt=0"`
	MaxMultiplier    float64           `env:"PRICING_MAX_MULTIPLIER" envDefault:"1.2" validate:"gt=0"`
	MinAbsolute      float64           `env:"PRICING_MIN_ABSOLUTE" envDefault:"0" validate:"gte=0"`
	MaxAbsolute      float64           `env:"PRICING_MAX_ABSOLUTE" envDefault:"0" validate:"gte=0"`
	PriceRounding    string            `env:"PRICING_ROUNDING" envDefault:"nearest" validate:"oneof=nearest floor ceil"`
	CurrencyRounding string            `env:"PRICING_CURRENCY_ROUNDING" envDefault:"nearest" validate:"oneof=nearest floor ceil"`
	CashOnly         bool              `env:"PRICING_CASH_ONLY" envDefault:"true"`
	RetainBaseline   bool              `env:"PRICING_RETAIN_BASELINE" envDefault:"true"`
	IntervalSeconds  int               `env:"PRICING_INTERVAL_SECONDS" envDefault:"600" validate:"gte=0"`
	BaseCurrency     string            `env:"PRICING_BASE_CURRENCY" envDefault:"cash" validate:"required"`
	Currencies       map[string]string `env:"PRICING_CURRENCIES" envSeparator:"," envDefault:"cash:currency-cash,euro:currency-euro,dollar:currency-dollar"`
	Seed             uint32            `env:"PRICING_SEED" envDefault:"0"`
}

// normalize fixes up values the engine assumes already ordered: swapped
// multiplier or absolute bounds, and a zero seed, which is replaced with a
// randomly derived one so restarts stay reproducible once the seed is pinned.
func (p *Pricing) normalize() error {
	if p.MinMultiplier > p.MaxMultiplier {
		p.MinMultiplier, p.MaxMultiplier = p.MaxMultiplier, p.MinMultiplier
	}

	if p.MinAbsolute > 0 && p.MaxAbsolute > 0 && p.MinAbsolute > p.MaxAbsolute {
		p.MinAbsolute, p.MaxAbsolute = p.MaxAbsolute, p.MinAbsolute
	}

	if _, ok := p.Currencies[p.BaseCurrency]; !ok {
		return fmt.Errorf("base currency %q missing from currency table", p.BaseCurrency)
	}

	if p.Seed == 0 {
		seed, err := randomSeed()
		if err != nil {
			return fmt.Errorf("randomSeed: %w", err)
		}

		p.Seed = seed
	}

	return nil
}

// Settings maps the loaded configuration onto the engine's value type.
func (p Pricing) Settings() pricing.Settings {
	return pricing.Settings{
		Enabled:        p.Enabled,
		VendorIDs:      p.VendorIDs,
		AutoDiscover:   p.AutoDiscover,
		MinMultiplier:  p.MinMultiplier,
		MaxMultiplier:  p.MaxMultiplier,
		MinAbsolute:    p.MinAbsolute,
		MaxAbsolute:    p.MaxAbsolute,
		PriceRounding:  pricing.Rounding(p.PriceRounding),
		CurrencyRound:  pricing.Rounding(p.CurrencyRounding),
		CashOnly:       p.CashOnly,
		RetainBaseline: p.RetainBaseline,
		Interval:       time.Duration(p.IntervalSeconds) * time.Second,
		BaseCurrency:   p.BaseCurrency,
		Currencies:     p.Currencies,
		Seed:           p.Seed,
	}
}

func randomSeed() (uint32, error) {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	seed := binary.LittleEndian.Uint32(b[:])
	if seed == 0 {
		seed = 1
	}

	return seed, nil
}
