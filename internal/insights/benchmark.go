package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
)

// Week status classification against the day-7 benchmark.
const (
	StatusNormal          = "Normal"
	StatusUnderperforming = "Underperforming"
	StatusOutperforming   = "Outperforming"

	underperformRatio = 0.8
	outperformRatio   = 1.2
	retentionD7Ratio  = 0.9

	outlierThreshold = 0.2
	snapshotOutliers = 5
)

// WeekStats is one ISO week's cohort trajectory measured against the global
// benchmark curve.
type WeekStats struct {
	Year           int     `json:"year"`
	Week           int     `json:"week"`
	Label          string  `json:"label"`
	Cost           float64 `json:"cost"`
	RoasD0         float64 `json:"roasD0"`
	RoasD3         float64 `json:"roasD3"`
	RoasD7         float64 `json:"roasD7"`
	Status         string  `json:"status"`
	RetentionIssue bool    `json:"retentionIssue"`
}

// ComputeBenchmarkCurve sums cost and revenue-at-day over the given rows
// and returns the global cumulative-ROAS curve at days 0, 3, 7 and at the
// most mature offset available per row.
func ComputeBenchmarkCurve(daily []models.DayRow) models.BenchmarkCurve {
	var cost, d0, d3, d7, final float64
	for _, row := range daily {
		cost += row.Cost
		d0 += RevenueAtDay(row, 0)
		d3 += RevenueAtDay(row, 3)
		d7 += RevenueAtDay(row, 7)
		final += LatestAvailableRevenue(row)
	}
	return models.BenchmarkCurve{
		D0:    safeRatio(d0, cost) * 100,
		D3:    safeRatio(d3, cost) * 100,
		D7:    safeRatio(d7, cost) * 100,
		Final: safeRatio(final, cost) * 100,
	}
}

// AnalyzeWeeks buckets the rows into ISO weeks, computes each week's early
// cohort ROAS and classifies it against the benchmark: day-7 ROAS below 80%
// of benchmark is underperforming, above 120% outperforming.  A week that
// starts above the day-0 benchmark but lands under 90% of the day-7
// benchmark additionally carries the retention-issue flag.  Rows without a
// date are skipped.  The result is sorted by (ISO year, ISO week).
func AnalyzeWeeks(daily []models.DayRow, bench models.BenchmarkCurve) []WeekStats {
	type weekRev struct {
		cost, d0, d3, d7 float64
	}
	accum := make(map[weekKey]*weekRev)
	for _, row := range daily {
		if !row.HasDate {
			continue
		}
		key := isoWeekOf(row.Date)
		wr, ok := accum[key]
		if !ok {
			wr = &weekRev{}
			accum[key] = wr
		}
		wr.cost += row.Cost
		wr.d0 += RevenueAtDay(row, 0)
		wr.d3 += RevenueAtDay(row, 3)
		wr.d7 += RevenueAtDay(row, 7)
	}

	weeks := make([]WeekStats, 0, len(accum))
	for key, wr := range accum {
		ws := WeekStats{
			Year:   key.Year,
			Week:   key.Week,
			Label:  shortWeekLabel(key.Week),
			Cost:   wr.cost,
			RoasD0: safeRatio(wr.d0, wr.cost) * 100,
			RoasD3: safeRatio(wr.d3, wr.cost) * 100,
			RoasD7: safeRatio(wr.d7, wr.cost) * 100,
			Status: StatusNormal,
		}

		if bench.D7 > 0 {
			switch ratio := ws.RoasD7 / bench.D7; {
			case ratio < underperformRatio:
				ws.Status = StatusUnderperforming
			case ratio > outperformRatio:
				ws.Status = StatusOutperforming
			}
		}
		if ws.RoasD0 > bench.D0 && ws.RoasD7 < bench.D7*retentionD7Ratio {
			ws.RetentionIssue = true
			ws.Status += "; Retention Issue"
		}

		weeks = append(weeks, ws)
	}

	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Year != weeks[j].Year {
			return weeks[i].Year < weeks[j].Year
		}
		return weeks[i].Week < weeks[j].Week
	})
	return weeks
}

// VelocityInsights compares each week's day-0 ROAS to the preceding week
// and renders one line per change.  Weeks whose predecessor measured zero
// are skipped: there is no base to express a percentage change against.
func VelocityInsights(weeks []WeekStats) []string {
	var lines []string
	for i := 1; i < len(weeks); i++ {
		prev, curr := weeks[i-1], weeks[i]
		if prev.RoasD0 == 0 {
			continue
		}
		switch {
		case curr.RoasD0 > prev.RoasD0:
			pct := (curr.RoasD0 - prev.RoasD0) / prev.RoasD0 * 100
			lines = append(lines, fmt.Sprintf("%s: Improving Start (+%.1f%% vs %s)", curr.Label, pct, prev.Label))
		case curr.RoasD0 < prev.RoasD0:
			pct := (prev.RoasD0 - curr.RoasD0) / prev.RoasD0 * 100
			lines = append(lines, fmt.Sprintf("%s: Weakening Start (-%.1f%% vs %s)", curr.Label, pct, prev.Label))
		}
	}
	return lines
}

// GlobalROAS is the spend-weighted average ROAS of a campaign set, as a
// percentage.
func GlobalROAS(campaigns []models.ProcessedCampaign) float64 {
	var revenue, cost float64
	for _, c := range campaigns {
		revenue += c.Revenue
		cost += c.Cost
	}
	return safeRatio(revenue, cost) * 100
}

// GlobalCPI is the install-weighted average cost per install of a campaign
// set.
func GlobalCPI(campaigns []models.ProcessedCampaign) float64 {
	var cost, installs float64
	for _, c := range campaigns {
		cost += c.Cost
		installs += c.Installs
	}
	return safeRatio(cost, installs)
}

// DetectOutliers flags campaigns whose ROAS deviates from the global
// average by more than 20% in either direction, most extreme first.  A zero
// global ROAS yields no outliers: there is no meaningful base line.
func DetectOutliers(campaigns []models.ProcessedCampaign, globalROAS float64) []models.Outlier {
	if globalROAS == 0 {
		return nil
	}
	var outliers []models.Outlier
	for _, c := range campaigns {
		deviation := (c.Roas - globalROAS) / globalROAS
		if math.Abs(deviation) <= outlierThreshold {
			continue
		}
		side := "above"
		if deviation < 0 {
			side = "below"
		}
		outliers = append(outliers, models.Outlier{
			Name:      c.CampaignName,
			Roas:      c.Roas,
			Deviation: deviation * 100,
			Reason:    fmt.Sprintf("%.0f%% %s average", math.Abs(deviation*100), side),
		})
	}
	sort.SliceStable(outliers, func(i, j int) bool {
		return math.Abs(outliers[i].Deviation) > math.Abs(outliers[j].Deviation)
	})
	return outliers
}

// BuildDateContext derives the report period and the allow-list of valid
// week labels from the daily rows.  Rows without a date are skipped; an
// empty dataset yields the "Unknown" period with no valid weeks.
func BuildDateContext(daily []models.DayRow) models.DateContext {
	var minDate, maxDate time.Time
	weekSet := make(map[weekKey]struct{})
	seen := false
	for _, row := range daily {
		if !row.HasDate {
			continue
		}
		if !seen || row.Date.Before(minDate) {
			minDate = row.Date
		}
		if !seen || row.Date.After(maxDate) {
			maxDate = row.Date
		}
		seen = true
		weekSet[isoWeekOf(row.Date)] = struct{}{}
	}

	if !seen {
		return models.DateContext{ReportPeriod: "Unknown", ValidWeeks: []string{}}
	}

	keys := make([]weekKey, 0, len(weekSet))
	for key := range weekSet {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	validWeeks := make([]string, 0, len(keys))
	for _, key := range keys {
		label := shortWeekLabel(key.Week)
		if len(validWeeks) == 0 || validWeeks[len(validWeeks)-1] != label {
			validWeeks = append(validWeeks, label)
		}
	}

	return models.DateContext{
		ReportPeriod: fmt.Sprintf("%s - %s", minDate.Format("Jan 02, 2006"), maxDate.Format("Jan 02, 2006")),
		ValidWeeks:   validWeeks,
		MinDate:      minDate.Format("2006-01-02"),
		MaxDate:      maxDate.Format("2006-01-02"),
	}
}

// WeeklyTrend reports the terminal observable cohort ROAS for the last
// three weeks of the matrix.  For each week the most mature non-nil offset
// is used, so a week cut off by the data horizon reports its latest
// measurable value instead of a hole.
func WeeklyTrend(cohortData []models.CohortPoint, weekLabels []string) []models.WeekTrendPoint {
	start := 0
	if len(weekLabels) > 3 {
		start = len(weekLabels) - 3
	}

	trend := make([]models.WeekTrendPoint, 0, 3)
	for _, label := range weekLabels[start:] {
		point := models.WeekTrendPoint{Week: label}
		for day := len(cohortData) - 1; day >= 0; day-- {
			if v := cohortData[day].Values[label]; v != nil {
				point.Roas = *v
				break
			}
		}
		trend = append(trend, point)
	}
	return trend
}

// BuildSnapshot assembles the deterministic structured snapshot consumed by
// external collaborators.  It is a rendering of the same aggregates the
// text summary reports and must never diverge from it.
func BuildSnapshot(
	campaigns []models.ProcessedCampaign,
	cohortData []models.CohortPoint,
	weekLabels []string,
	daily []models.DayRow,
) models.AnalysisSnapshot {
	globalROAS := GlobalROAS(campaigns)

	sorted := make([]models.ProcessedCampaign, len(campaigns))
	copy(sorted, campaigns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Profit > sorted[j].Profit })

	performer := func(c models.ProcessedCampaign) models.TopPerformer {
		return models.TopPerformer{Name: c.CampaignName, Roas: c.Roas, Spend: c.Cost, Profit: c.Profit}
	}

	top := make([]models.TopPerformer, 0, 3)
	for i := 0; i < len(sorted) && i < 3; i++ {
		top = append(top, performer(sorted[i]))
	}
	bottom := make([]models.TopPerformer, 0, 3)
	for i := len(sorted) - 1; i >= 0 && len(bottom) < 3; i-- {
		bottom = append(bottom, performer(sorted[i]))
	}

	outliers := DetectOutliers(campaigns, globalROAS)
	if len(outliers) > snapshotOutliers {
		outliers = outliers[:snapshotOutliers]
	}

	return models.AnalysisSnapshot{
		Meta: BuildDateContext(daily),
		Benchmarks: models.Benchmarks{
			GlobalAverageROAS: globalROAS,
			GlobalAverageCPI:  GlobalCPI(campaigns),
			Curve:             ComputeBenchmarkCurve(daily),
			WeeklyTrend:       WeeklyTrend(cohortData, weekLabels),
		},
		TopPerformers:   top,
		Underperformers: bottom,
		Outliers:        outliers,
	}
}
