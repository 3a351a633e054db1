package store

import (
	"context"
	"log/slog"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"trader_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Reference tables arrive in two shapes: a list of records or a map keyed by
// identifier, with several field-name synonyms for the price. Everything is
// normalized here into a flat identifier -> price view so the resolver stays
// shape-agnostic.
var (
	priceFields = []string{"price", "basePrice", "base_price", "value"} //nolint:gochecknoglobals
	idFields    = []string{"id", "item_id", "itemId"}                   //nolint:gochecknoglobals
)

// NormalizeTable parses a raw reference table into a canonical price view.
// Malformed records are logged and skipped, never fatal.
func NormalizeTable(ctx context.Context, name string, raw []byte) map[string]float64 {
	prices := make(map[string]float64)

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logger(ctx).Warn("unparseable reference table",
			slog.String("table", name),
			logx.Error(err),
		)

		return prices
	}

	switch table := decoded.(type) {
	case []any:
		for i, record := range table {
			id, price, ok := normalizeRecord(record)
			if !ok {
				logger(ctx).Warn("skipping malformed table record",
					slog.String("table", name),
					slog.Int("index", i),
				)

				continue
			}

			prices[id] = price
		}
	case map[string]any:
		for id, value := range table {
			price, ok := coercePrice(value)
			if !ok {
				logger(ctx).Warn("skipping malformed table entry",
					slog.String("table", name),
					slog.String(logx.FieldItemID, id),
				)

				continue
			}

			prices[id] = price
		}
	default:
		logger(ctx).Warn("unsupported reference table shape", slog.String("table", name))
	}

	return prices
}

// normalizeRecord extracts identifier and price from one list-shaped record.
func normalizeRecord(record any) (string, float64, bool) {
	fields, ok := record.(map[string]any)
	if !ok {
		return "", 0, false
	}

	var id string

	for _, key := range idFields {
		if v, ok := fields[key].(string); ok && v != "" {
			id = v
			break
		}
	}

	if id == "" {
		return "", 0, false
	}

	for _, key := range priceFields {
		if v, ok := fields[key]; ok {
			if price, ok := coerceNumber(v); ok {
				return id, price, true
			}
		}
	}

	return "", 0, false
}

// coercePrice handles map-shaped entries whose value is either a bare number
// or a record with a synonymous price field.
func coercePrice(value any) (float64, bool) {
	if price, ok := coerceNumber(value); ok {
		return price, true
	}

	fields, ok := value.(map[string]any)
	if !ok {
		return 0, false
	}

	for _, key := range priceFields {
		if v, ok := fields[key]; ok {
			if price, ok := coerceNumber(v); ok {
				return price, true
			}
		}
	}

	return 0, false
}

// coerceNumber accepts numeric and numeric-string values.
func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}

		return price, true
	}

	return 0, false
}
