package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"trader_market/internal/infrastructure/store"
)

func TestNormalizeTable(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		raw  string
		want map[string]float64
	}{
		{
			name: "List of records",
			raw:  `[{"id":"knife","price":250},{"id":"helmet","basePrice":1200}]`,
			want: map[string]float64{"knife": 250, "helmet": 1200},
		},
		{
			name: "List with identifier synonyms",
			raw:  `[{"item_id":"knife","value":250},{"itemId":"helmet","base_price":1200}]`,
			want: map[string]float64{"knife": 250, "helmet": 1200},
		},
		{
			name: "Map of bare numbers",
			raw:  `{"knife":250,"helmet":1200}`,
			want: map[string]float64{"knife": 250, "helmet": 1200},
		},
		{
			name: "Map of records",
			raw:  `{"knife":{"price":250},"helmet":{"value":1200}}`,
			want: map[string]float64{"knife": 250, "helmet": 1200},
		},
		{
			name: "Numeric strings",
			raw:  `{"knife":"250","helmet":{"price":"1200.5"}}`,
			want: map[string]float64{"knife": 250, "helmet": 1200.5},
		},
		{
			name: "Malformed records skipped",
			raw:  `[{"id":"knife","price":250},{"price":99},{"id":"helmet","price":"soon"},42]`,
			want: map[string]float64{"knife": 250},
		},
		{
			name: "Malformed map entries skipped",
			raw:  `{"knife":250,"helmet":{"cost":1200},"bolts":null}`,
			want: map[string]float64{"knife": 250},
		},
		{
			name: "Unparseable payload",
			raw:  `{"knife":`,
			want: map[string]float64{},
		},
		{
			name: "Unsupported shape",
			raw:  `"just a string"`,
			want: map[string]float64{},
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			rq.Equal(tc.want, store.NormalizeTable(ctx, "test-table", []byte(tc.raw)))
		})
	}
}
