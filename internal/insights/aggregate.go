package insights

import (
	"sort"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
)

// cohortDays is the number of tracked days-since-install offsets (0..30).
const cohortDays = 31

type weekAccum struct {
	key          weekKey
	label        string
	start        time.Time
	cost         float64
	revenueByDay [cohortDays]float64
}

// AggregateData recomputes every dashboard artifact for the given filter
// state: the filtered campaign table, the daily trend series, the weekly
// cohort ROAS matrix and the ordered week labels.  It is a pure function of
// its inputs; caller-supplied slices are never mutated.
//
// selectedCampaign narrows the daily rows to a single campaign (drill-down)
// and overrides the category/source matrix filter.  Pass "" for no
// selection and models.FilterAll to disable either filter.
func AggregateData(
	summary []models.ProcessedCampaign,
	daily []models.DayRow,
	filterCategory string,
	filterSource string,
	selectedCampaign string,
) models.AggregateResult {
	sourceByCampaign := make(map[string]models.Source, len(summary))
	for _, c := range summary {
		sourceByCampaign[c.CampaignName] = c.NormalizedSource
	}

	// Campaign table: filter, then reassign Rank within the filtered view.
	// GlobalRank was fixed against the unfiltered universe at scoring time
	// and is carried through unchanged.
	campaigns := make([]models.ProcessedCampaign, 0, len(summary))
	for _, c := range summary {
		if filterCategory != models.FilterAll && string(c.Category) != filterCategory {
			continue
		}
		if filterSource != models.FilterAll && string(c.NormalizedSource) != filterSource {
			continue
		}
		c.Rank = len(campaigns) + 1
		campaigns = append(campaigns, c)
	}

	// The observability horizon comes from the full daily dataset, not the
	// filtered subset, so drilling down never extends a cohort curve past
	// the dates the report actually covers.
	var reportMaxDate time.Time
	for _, row := range daily {
		if row.HasDate && row.Date.After(reportMaxDate) {
			reportMaxDate = row.Date
		}
	}

	dateMap := make(map[string]*models.ChartPoint)
	weekMap := make(map[weekKey]*weekAccum)

	for _, row := range daily {
		if !row.HasDate {
			continue
		}
		if selectedCampaign != "" {
			if row.CampaignName != selectedCampaign {
				continue
			}
		} else {
			cat := ClassifyCategory(row.CampaignName)
			src, ok := sourceByCampaign[row.CampaignName]
			if !ok {
				src = models.SourceOther
			}
			if filterCategory != models.FilterAll && string(cat) != filterCategory {
				continue
			}
			if filterSource != models.FilterAll && string(src) != filterSource {
				continue
			}
		}

		dateStr := row.Date.Format("2006-01-02")
		dp, ok := dateMap[dateStr]
		if !ok {
			dp = &models.ChartPoint{Date: dateStr}
			dateMap[dateStr] = dp
		}
		dp.DailyCost += row.Cost
		dp.DailyRevenue += row.Revenue
		dp.DailyInstalls += row.Installs
		dp.DailyCards += row.Cards
		dp.DailySubs += row.Subs

		key := isoWeekOf(row.Date)
		wa, ok := weekMap[key]
		if !ok {
			start := isoWeekStart(row.Date)
			wa = &weekAccum{key: key, label: weekLabel(key.Week, start), start: start}
			weekMap[key] = wa
		}
		wa.cost += row.Cost
		for day := 0; day < cohortDays; day++ {
			wa.revenueByDay[day] += RevenueAtDay(row, day)
		}
	}

	// Daily trend, ascending by date, with running cumulative totals.
	chartData := make([]models.ChartPoint, 0, len(dateMap))
	for _, dp := range dateMap {
		chartData = append(chartData, *dp)
	}
	sort.Slice(chartData, func(i, j int) bool { return chartData[i].Date < chartData[j].Date })

	var cumCost, cumRevenue float64
	for i := range chartData {
		cumCost += chartData[i].DailyCost
		cumRevenue += chartData[i].DailyRevenue
		chartData[i].CumulativeCost = cumCost
		chartData[i].CumulativeRevenue = cumRevenue
		chartData[i].NetProfit = cumRevenue - cumCost
	}

	weeks := make([]*weekAccum, 0, len(weekMap))
	for _, wa := range weekMap {
		weeks = append(weeks, wa)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].key.before(weeks[j].key) })

	weekLabels := make([]string, len(weeks))
	for i, wa := range weeks {
		weekLabels[i] = wa.label
	}

	// Cohort matrix with the smart cutoff: an offset is only reported when
	// the week's start date plus the offset is on or before the report's
	// data horizon.  nil means "not yet measurable", never "zero".
	cohortData := make([]models.CohortPoint, cohortDays)
	for day := 0; day < cohortDays; day++ {
		point := models.CohortPoint{Day: day, Values: make(map[string]*float64, len(weeks))}
		for _, wa := range weeks {
			realDate := wa.start.AddDate(0, 0, day)
			if realDate.After(reportMaxDate) || wa.cost <= 0 {
				point.Values[wa.label] = nil
				continue
			}
			roas := wa.revenueByDay[day] / wa.cost * 100
			point.Values[wa.label] = &roas
		}
		cohortData[day] = point
	}

	return models.AggregateResult{
		Campaigns:  campaigns,
		ChartData:  chartData,
		CohortData: cohortData,
		WeekLabels: weekLabels,
	}
}

// FilterDaily returns the daily rows matching the category/source filter.
// Row filtering follows the same rules AggregateData applies, so the text
// summary and the cohort matrix always describe the same row set.
func FilterDaily(
	summary []models.ProcessedCampaign,
	daily []models.DayRow,
	filterCategory string,
	filterSource string,
) []models.DayRow {
	sourceByCampaign := make(map[string]models.Source, len(summary))
	for _, c := range summary {
		sourceByCampaign[c.CampaignName] = c.NormalizedSource
	}

	out := make([]models.DayRow, 0, len(daily))
	for _, row := range daily {
		cat := ClassifyCategory(row.CampaignName)
		src, ok := sourceByCampaign[row.CampaignName]
		if !ok {
			src = models.SourceOther
		}
		if filterCategory != models.FilterAll && string(cat) != filterCategory {
			continue
		}
		if filterSource != models.FilterAll && string(src) != filterSource {
			continue
		}
		out = append(out, row)
	}
	return out
}
