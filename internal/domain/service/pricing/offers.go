package pricing

import (
	"context"
	"log/slog"
	"math"

	"trader_market/internal/domain/entity"
	"trader_market/pkg/logx"
)

// OfferUpdater writes a newly computed price into the right trade-offer slot
// of an item's offer list.
type OfferUpdater struct {
	converter      *Converter
	cashOnly       bool
	baseCurrencyID string
	currencyIDs    map[string]struct{}
}

func NewOfferUpdater(converter *Converter, settings Settings) *OfferUpdater {
	currencyIDs := make(map[string]struct{}, len(settings.Currencies))
	for _, id := range settings.Currencies {
		currencyIDs[id] = struct{}{}
	}

	return &OfferUpdater{
		converter:      converter,
		cashOnly:       settings.CashOnly,
		baseCurrencyID: settings.BaseCurrencyID(),
		currencyIDs:    currencyIDs,
	}
}

// Update rewrites the quantity of the target offer with the computed
// base-currency price, converting to the offer's currency when needed.
// Returns false when no offer qualifies for a write.
func (u *OfferUpdater) Update(ctx context.Context, offers []*entity.TradeOffer, price float64) bool {
	offer := u.targetOffer(offers)
	if offer == nil {
		return false
	}

	offer.Quantity = u.quantity(ctx, offer.CounterpartID, price)

	return true
}

// targetOffer picks the offer to rewrite. In cash-only mode only
// currency-denominated offers qualify, the base currency preferred when
// present. Otherwise the first offer is taken regardless of its counterpart,
// matching the long-standing behavior of compatible vendor mods.
func (u *OfferUpdater) targetOffer(offers []*entity.TradeOffer) *entity.TradeOffer {
	if !u.cashOnly {
		if len(offers) == 0 || offers[0] == nil {
			return nil
		}

		return offers[0]
	}

	var fallback *entity.TradeOffer

	for _, offer := range offers {
		if offer == nil {
			continue
		}

		if offer.CounterpartID == u.baseCurrencyID {
			return offer
		}

		if _, ok := u.currencyIDs[offer.CounterpartID]; ok && fallback == nil {
			fallback = offer
		}
	}

	return fallback
}

func (u *OfferUpdater) quantity(ctx context.Context, counterpartID string, price float64) int64 {
	if counterpartID == u.baseCurrencyID {
		return atLeastOne(price)
	}

	converted, ok := u.converter.Convert(ctx, price, counterpartID)
	if !ok {
		logger(ctx).Warn("conversion unavailable, writing base-currency price",
			slog.String(logx.FieldCurrencyID, counterpartID),
			slog.Float64(logx.FieldPrice, price),
		)

		return atLeastOne(math.Floor(price))
	}

	return atLeastOne(converted)
}

func atLeastOne(v float64) int64 {
	if v < 1 {
		return 1
	}

	// float64 -> int64 conversion is undefined past MaxInt64.
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}
