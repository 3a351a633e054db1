package pricing

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultVendorPatterns are the display-name substrings identifying vendors
// from compatible market mods.
var DefaultVendorPatterns = []string{ //nolint:gochecknoglobals
	"trader",
	"merchant",
	"peddler",
	"broker",
	"smuggler",
}

// Discovery matches vendor display names against known patterns,
// case-insensitively.
type Discovery struct {
	patterns []string
}

func NewDiscovery(patterns ...string) Discovery {
	if len(patterns) == 0 {
		patterns = DefaultVendorPatterns
	}

	return Discovery{
		patterns: lo.Map(patterns, func(p string, _ int) string {
			return strings.ToLower(p)
		}),
	}
}

// Match returns the identifiers of all matching vendors in store-iteration
// order. An empty result signals the caller to fall back to the configured
// vendor list.
func (d Discovery) Match(store Store) []string {
	var ids []string

	for _, vendor := range store.Vendors() {
		name := strings.ToLower(vendor.Name)

		matched := lo.SomeBy(d.patterns, func(p string) bool {
			return strings.Contains(name, p)
		})

		if matched {
			ids = append(ids, vendor.ID)
		}
	}

	return ids
}
