package models

import "time"

// Category is the product line a campaign advertises.  It is derived from
// the campaign name by a fixed set of substring rules and must be computed
// through insights.ClassifyCategory everywhere; there is exactly one
// classifier in this codebase.
type Category string

const (
	CategoryP2P       Category = "P2P"
	CategoryPaymePlus Category = "PaymePlus"
	CategoryPayments  Category = "Payments"
	CategoryReach     Category = "Reach"
	CategoryOther     Category = "Other"
)

// Source is the normalized acquisition channel behind a raw media-source
// string from the attribution export.
type Source string

const (
	SourceFacebook Source = "Facebook"
	SourceGoogle   Source = "Google"
	SourceBigo     Source = "Bigo"
	SourceOther    Source = "Other"
)

// FilterAll disables a category or source filter.
const FilterAll = "All"

// RevenueCell holds the two cumulative transaction volumes reported for one
// "days since install" offset of a daily row.  The values are gross
// transaction volume, not business revenue; commission rates are applied by
// the revenue reconstructor.
type RevenueCell struct {
	Transfer float64 `json:"transfer"`
	Purchase float64 `json:"purchase"`
}

// DayRow is one campaign-day observation from the daily cohort export,
// already normalized: numeric fields coerced, the sparse wide revenue
// columns collapsed into RevenueCells.  Rows are immutable once built.
type DayRow struct {
	// Date is the calendar date of the observation.  HasDate is false when
	// the export row carried no parseable date; such rows are excluded from
	// every date-keyed aggregation but still count toward campaign totals.
	Date         time.Time `json:"date"`
	HasDate      bool      `json:"hasDate"`
	CampaignName string    `json:"campaignName"`
	MediaSource  string    `json:"mediaSource"`
	Cost         float64   `json:"cost"`
	// Revenue is the primary revenue figure supplied by the upstream summary
	// pipeline, distinct from the cohort revenue reconstructed from
	// RevenueCells.
	Revenue  float64 `json:"revenue"`
	Installs float64 `json:"installs"`
	Cards    float64 `json:"cards"`
	Subs     float64 `json:"subs"`
	// RevenueCells maps a days-since-install offset to the cumulative
	// transaction volumes observed at that offset.
	RevenueCells map[int]RevenueCell `json:"revenueCells,omitempty"`
}

// SummaryRecord is one aggregated campaign row from the summary export.
// There is no date dimension; CampaignName is the join key to DayRow.
type SummaryRecord struct {
	CampaignName string  `json:"campaignName"`
	MediaSource  string  `json:"mediaSource"`
	Cost         float64 `json:"cost"`
	Revenue      float64 `json:"revenue"`
	Profit       float64 `json:"profit"`
	Installs     float64 `json:"installs"`
	Cards        float64 `json:"cards"`
	Subs         float64 `json:"subs"`
	// Position is the row's rank in the external summary source, kept only
	// as a provisional order before PI scoring.
	Position int `json:"position"`
}
