package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trader_market/internal/domain/entity"
)

func TestVendorItemIDs(t *testing.T) {
	rq := require.New(t)

	vendor := &entity.Vendor{
		ID: "v1",
		Assortment: []*entity.AssortmentEntry{
			{ItemID: "knife", OfferID: "o1"},
			{ItemID: "helmet", OfferID: "o2"},
			{ItemID: "knife", OfferID: "o3"},
			{ItemID: "", OfferID: "o4"},
			nil,
		},
	}

	rq.Equal([]string{"knife", "helmet"}, vendor.ItemIDs())
}

func TestVendorItemIDsEmpty(t *testing.T) {
	rq := require.New(t)

	rq.Empty((&entity.Vendor{ID: "v1"}).ItemIDs())
}
