// Package store provides the in-memory market store the pricing engine reads
// and mutates: vendors with their live trade offers plus the normalized
// reference and handbook price views.
package store

import (
	"sync"

	"trader_market/internal/domain/entity"
	"trader_market/internal/domain/service/pricing"
	"trader_market/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// liveView reads whatever table the store currently holds, so a table swap
// (tests, manual reloads) is visible without rebinding the resolver.
type liveView struct {
	store    *MarketStore
	handbook bool
}

func (v liveView) Price(id string) (float64, bool) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()

	table := v.store.prices
	if v.handbook {
		table = v.store.handbook
	}

	price, ok := table[id]

	return price, ok
}

// MarketStore keeps vendors in insertion order; discovery and cycle
// processing rely on stable iteration.
type MarketStore struct {
	mu       sync.RWMutex
	vendors  []*entity.Vendor
	index    map[string]*entity.Vendor
	prices   map[string]float64
	handbook map[string]float64
}

func New() *MarketStore {
	return &MarketStore{
		index:    make(map[string]*entity.Vendor),
		prices:   map[string]float64{},
		handbook: map[string]float64{},
	}
}

func (s *MarketStore) AddVendor(vendor *entity.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[vendor.ID]; ok {
		return
	}

	s.vendors = append(s.vendors, vendor)
	s.index[vendor.ID] = vendor
}

func (s *MarketStore) SetPrices(prices map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices = prices
}

func (s *MarketStore) SetHandbook(prices map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handbook = prices
}

func (s *MarketStore) Prices() pricing.PriceView {
	return liveView{store: s}
}

func (s *MarketStore) Handbook() pricing.PriceView {
	return liveView{store: s, handbook: true}
}

func (s *MarketStore) Vendor(id string) (*entity.Vendor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vendor, ok := s.index[id]

	return vendor, ok
}

// Vendors returns the vendor list in insertion order. The slice is a copy,
// the vendors are the live entities.
func (s *MarketStore) Vendors() []*entity.Vendor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vendors := make([]*entity.Vendor, len(s.vendors))
	copy(vendors, s.vendors)

	return vendors
}
