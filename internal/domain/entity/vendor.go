package entity

// TradeOffer is one line of a barter scheme: pay Quantity units of the
// counterpart item to buy the assortment item. For currency counterparts the
// quantity is the price.
type TradeOffer struct {
	CounterpartID string `json:"counterpart_id"`
	Quantity      int64  `json:"quantity"`
}

// AssortmentEntry binds one carried item kind to its trade offers.
type AssortmentEntry struct {
	ItemID  string        `json:"item_id"`
	OfferID string        `json:"offer_id"`
	Offers  []*TradeOffer `json:"offers"`
}

type Vendor struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Assortment []*AssortmentEntry `json:"assortment"`
}

// ItemIDs returns the distinct item kinds the vendor currently carries,
// in assortment order.
func (v *Vendor) ItemIDs() []string {
	seen := make(map[string]struct{}, len(v.Assortment))
	ids := make([]string, 0, len(v.Assortment))

	for _, entry := range v.Assortment {
		if entry == nil || entry.ItemID == "" {
			continue
		}

		if _, ok := seen[entry.ItemID]; ok {
			continue
		}

		seen[entry.ItemID] = struct{}{}
		ids = append(ids, entry.ItemID)
	}

	return ids
}
