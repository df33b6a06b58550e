package models

// ProcessedCampaign is one ranked dashboard row.  Instances are created once
// per aggregation pass and never mutated afterwards.
type ProcessedCampaign struct {
	ID           string   `json:"id"`
	Rank         int      `json:"rank"`
	GlobalRank   int      `json:"globalRank"`
	Category     Category `json:"category"`
	CampaignName string   `json:"campaignName"`
	MediaSource  string   `json:"mediaSource"`
	// NormalizedSource is the canonical channel derived from MediaSource.
	NormalizedSource Source  `json:"normalizedSource"`
	Cost             float64 `json:"cost"`
	Revenue          float64 `json:"revenue"`
	Profit           float64 `json:"profit"`
	Roas             float64 `json:"roas"`
	Installs         float64 `json:"installs"`
	Cards            float64 `json:"cards"`
	CpaCards         float64 `json:"cpaCards"`
	Subs             float64 `json:"subs"`
	CpaSubs          float64 `json:"cpaSubs"`
	Cpi              float64 `json:"cpi"`
	// PIScore is the composite 0-100 ranking score.
	PIScore int `json:"piScore"`
}

// ChartPoint is one calendar day of the daily trend series with running
// cumulative totals.
type ChartPoint struct {
	Date              string  `json:"date"`
	DailyCost         float64 `json:"dailyCost"`
	DailyRevenue      float64 `json:"dailyRevenue"`
	DailyInstalls     float64 `json:"dailyInstalls"`
	DailyCards        float64 `json:"dailyCards"`
	DailySubs         float64 `json:"dailySubs"`
	CumulativeCost    float64 `json:"cumulativeCost"`
	CumulativeRevenue float64 `json:"cumulativeRevenue"`
	NetProfit         float64 `json:"netProfit"`
}

// CohortPoint is one days-since-install offset of the weekly cohort matrix.
// Values is keyed by week label; a nil entry means the offset is not yet
// observable for that week (distinct from a measured zero).
type CohortPoint struct {
	Day    int                 `json:"day"`
	Values map[string]*float64 `json:"values"`
}

// ProductSplit is one category's share of a dashboard metric.
type ProductSplit struct {
	Product    Category `json:"product"`
	Value      float64  `json:"value"`
	Percentage float64  `json:"percentage"`
}

// DashboardMetrics is the rollup of a campaign set: totals, weighted
// averages and per-category percentage splits.
type DashboardMetrics struct {
	TotalSpend    float64 `json:"totalSpend"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalProfit   float64 `json:"totalProfit"`
	AvgRoas       float64 `json:"avgRoas"`
	TotalInstalls float64 `json:"totalInstalls"`
	AvgCpi        float64 `json:"avgCpi"`
	TotalCards    float64 `json:"totalCards"`
	AvgCpaCards   float64 `json:"avgCpaCards"`
	TotalSubs     float64 `json:"totalSubs"`
	AvgCpaSubs    float64 `json:"avgCpaSubs"`

	SpendSplit    []ProductSplit `json:"spendSplit"`
	RevenueSplit  []ProductSplit `json:"revenueSplit"`
	ProfitSplit   []ProductSplit `json:"profitSplit"`
	InstallsSplit []ProductSplit `json:"installsSplit"`
	CardsSplit    []ProductSplit `json:"cardsSplit"`
	SubsSplit     []ProductSplit `json:"subsSplit"`
}

// AggregateResult bundles the artifacts of one aggregation pass over the
// current dataset and filter state.
type AggregateResult struct {
	Campaigns  []ProcessedCampaign `json:"campaigns"`
	ChartData  []ChartPoint        `json:"chartData"`
	CohortData []CohortPoint       `json:"cohortData"`
	WeekLabels []string            `json:"weekLabels"`
}
