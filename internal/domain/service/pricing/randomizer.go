package pricing

// Randomizer applies one bounded random multiplier to a baseline price.
type Randomizer struct {
	gen      *Generator
	minMult  float64
	maxMult  float64
	minAbs   float64
	maxAbs   float64
	rounding Rounding
}

func NewRandomizer(gen *Generator, settings Settings) *Randomizer {
	return &Randomizer{
		gen:      gen,
		minMult:  settings.MinMultiplier,
		maxMult:  settings.MaxMultiplier,
		minAbs:   settings.MinAbsolute,
		maxAbs:   settings.MaxAbsolute,
		rounding: settings.PriceRounding,
	}
}

// Randomize draws one generator step, maps it linearly into
// [minMultiplier, maxMultiplier], multiplies the baseline, clamps into the
// absolute bounds (0 meaning unbounded) and rounds to whole currency units.
func (r *Randomizer) Randomize(baseline float64) float64 {
	multiplier := r.minMult + r.gen.Float64()*(r.maxMult-r.minMult)

	price := baseline * multiplier

	if r.minAbs > 0 && price < r.minAbs {
		price = r.minAbs
	}

	if r.maxAbs > 0 && price > r.maxAbs {
		price = r.maxAbs
	}

	price = r.rounding.Apply(price)
	if price < 0 {
		price = 0
	}

	return price
}
