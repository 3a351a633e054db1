package entity

import "time"

// CycleReport summarizes one full price-randomization pass.
type CycleReport struct {
	Cycle          uint64        `json:"cycle"`
	Vendors        int           `json:"vendors"`
	VendorsMissing int           `json:"vendors_missing"`
	VendorsFailed  int           `json:"vendors_failed"`
	OffersUpdated  int           `json:"offers_updated"`
	OffersSkipped  int           `json:"offers_skipped"`
	Duration       time.Duration `json:"duration"`
	FinishedAt     time.Time     `json:"finished_at"`
}
