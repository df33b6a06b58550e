package models

import "time"

// DateContext describes the calendar span of the daily dataset.  ValidWeeks
// is the allow-list of week labels a downstream text-generation consumer may
// mention; the caller rejects any week outside it.
type DateContext struct {
	ReportPeriod string   `json:"reportPeriod"` // "Nov 01, 2025 - Nov 30, 2025"
	ValidWeeks   []string `json:"validWeeks"`   // ["Week 44", "Week 45", ...]
	MinDate      string   `json:"minDate"`      // "2006-01-02"
	MaxDate      string   `json:"maxDate"`
}

// BenchmarkCurve is the global cumulative-ROAS trajectory by days since
// install, each value a percentage of spend.
type BenchmarkCurve struct {
	D0    float64 `json:"d0"`
	D3    float64 `json:"d3"`
	D7    float64 `json:"d7"`
	Final float64 `json:"final"`
}

// WeekTrendPoint is one week's terminal cohort ROAS.
type WeekTrendPoint struct {
	Week string  `json:"week"`
	Roas float64 `json:"roas"`
}

// Benchmarks aggregates the global reference figures campaigns are judged
// against.
type Benchmarks struct {
	GlobalAverageROAS float64          `json:"globalAverageROAS"`
	GlobalAverageCPI  float64          `json:"globalAverageCPI"`
	Curve             BenchmarkCurve   `json:"curve"`
	WeeklyTrend       []WeekTrendPoint `json:"weeklyTrend"`
}

// TopPerformer is one campaign in a profit-ordered leaderboard slice.
type TopPerformer struct {
	Name   string  `json:"name"`
	Roas   float64 `json:"roas"`
	Spend  float64 `json:"spend"`
	Profit float64 `json:"profit"`
}

// Outlier is a campaign whose ROAS deviates from the global average by more
// than the detection threshold.
type Outlier struct {
	Name      string  `json:"name"`
	Roas      float64 `json:"roas"`
	Deviation float64 `json:"deviation"` // percentage difference from average
	Reason    string  `json:"reason"`
}

// AnalysisSnapshot is the deterministic aggregate handed to external
// consumers.  It carries no raw rows and is rebuilt on every request.
type AnalysisSnapshot struct {
	Meta            DateContext    `json:"meta"`
	Benchmarks      Benchmarks     `json:"benchmarks"`
	TopPerformers   []TopPerformer `json:"topPerformers"`
	Underperformers []TopPerformer `json:"underperformers"`
	Outliers        []Outlier      `json:"outliers"`
}

// Report is a named, persisted analysis: the structured snapshot plus the
// text summary it was rendered from, frozen at save time.
type Report struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Source      string           `json:"source"`
	DateRange   string           `json:"dateRange"`
	Snapshot    AnalysisSnapshot `json:"snapshot"`
	SummaryText string           `json:"summaryText"`
	CreatedAt   time.Time        `json:"createdAt"`
}
