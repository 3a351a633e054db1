package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"trader_market/internal/domain"
	"trader_market/internal/domain/entity"
	"trader_market/pkg/errcodes"
)

const (
	pricesFile   = "prices.json"
	handbookFile = "handbook.json"
	vendorsFile  = "vendors.json"
)

// Load builds a MarketStore from the JSON snapshot files in dir. The prices
// and vendors files are required; the handbook is optional.
func Load(ctx context.Context, dir string) (*MarketStore, error) {
	s := New()

	rawPrices, err := os.ReadFile(filepath.Join(dir, pricesFile))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.StoreLoadFailed, "read prices table")
	}

	s.SetPrices(NormalizeTable(ctx, pricesFile, rawPrices))

	rawHandbook, err := os.ReadFile(filepath.Join(dir, handbookFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger(ctx).Info("no handbook table", slog.String("dir", dir))
	case err != nil:
		return nil, domain.WrapError(err, errcodes.StoreLoadFailed, "read handbook table")
	default:
		s.SetHandbook(NormalizeTable(ctx, handbookFile, rawHandbook))
	}

	rawVendors, err := os.ReadFile(filepath.Join(dir, vendorsFile))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.StoreLoadFailed, "read vendors")
	}

	var vendors []*entity.Vendor
	if err := json.Unmarshal(rawVendors, &vendors); err != nil {
		return nil, domain.WrapError(err, errcodes.StoreLoadFailed, fmt.Sprintf("parse %s", vendorsFile))
	}

	for _, vendor := range vendors {
		if vendor == nil || vendor.ID == "" {
			logger(ctx).Warn("skipping vendor without identifier")
			continue
		}

		s.AddVendor(vendor)
	}

	logger(ctx).Info("market store loaded",
		slog.String("dir", dir),
		slog.Int("vendors", len(s.Vendors())),
	)

	return s, nil
}
