package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
)

// NoDataSentinel opens the summary when nothing matches the current
// filters.  Downstream consumers check for it verbatim; do not reword.
const NoDataSentinel = "NO DATA FOUND"

// Promotional calendar windows checked for date-range overlap, in priority
// order.
const (
	seasonBlackFriday = "Context: Black Friday Period. Expect high CPM, high competition, and a potential ROAS drop from expensive traffic."
	seasonNewYear     = "Context: New Year Rush. Expect high conversion rates but expensive traffic."
	seasonPostHoliday = "Context: Post-Holiday Slump. Buying activity typically drops."
	seasonStandard    = "Context: Standard business season."
)

// reportPeriodLayout matches DateContext.ReportPeriod.
const reportPeriodLayout = "Jan 02, 2006"

// BuildSummaryText renders the deterministic plain-text summary handed to
// the external text-generation collaborator.  Section headings and ordering
// are a contract; the collaborator's instructions reference them literally.
// The text is untrusted context on the far side, so the caller pairs it
// with the week allow-list from BuildDateContext to reject fabricated week
// mentions.
func BuildSummaryText(daily []models.DayRow, dateRange, category, source string) string {
	if len(daily) == 0 {
		return fmt.Sprintf(`%s

Current Filters:
- Product: %s
- Source: %s
- Report Period: %s

No data matches the current filter criteria. Please adjust your filters or upload data.`,
			NoDataSentinel, category, source, dateRange)
	}

	bench := ComputeBenchmarkCurve(daily)
	weeks := AnalyzeWeeks(daily, bench)

	var totalCost, totalRevenueFinal float64
	campaignStats := make(map[string]*struct{ cost, revenue float64 })
	productStats := make(map[models.Category]*struct {
		cost, revenue float64
		campaigns     int
	})

	for _, row := range daily {
		revenue := LatestAvailableRevenue(row)
		totalCost += row.Cost
		totalRevenueFinal += revenue

		name := row.CampaignName
		if name == "" {
			name = "Unknown"
		}
		cs, ok := campaignStats[name]
		if !ok {
			cs = &struct{ cost, revenue float64 }{}
			campaignStats[name] = cs
		}
		cs.cost += row.Cost
		cs.revenue += revenue

		product := ClassifyCategory(row.CampaignName)
		ps, ok := productStats[product]
		if !ok {
			ps = &struct {
				cost, revenue float64
				campaigns     int
			}{}
			productStats[product] = ps
		}
		ps.cost += row.Cost
		ps.revenue += revenue
		ps.campaigns++
	}

	globalROAS := safeRatio(totalRevenueFinal, totalCost) * 100
	totalProfit := totalRevenueFinal - totalCost

	// Product winners: best ROAS and highest spend, reported separately
	// because they regularly differ.  Zero-spend products are excluded.
	type productLine struct {
		product models.Category
		cost    float64
		roas    float64
	}
	products := make([]productLine, 0, len(productStats))
	for product, ps := range productStats {
		if ps.cost <= 0 {
			continue
		}
		products = append(products, productLine{
			product: product,
			cost:    ps.cost,
			roas:    safeRatio(ps.revenue, ps.cost) * 100,
		})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].product < products[j].product })

	bestROAS := "N/A"
	highestVolume := "N/A"
	if len(products) > 0 {
		best, highest := products[0], products[0]
		for _, p := range products[1:] {
			if p.roas > best.roas {
				best = p
			}
			if p.cost > highest.cost {
				highest = p
			}
		}
		bestROAS = fmt.Sprintf("%s (%.1f%%)", best.product, best.roas)
		highestVolume = fmt.Sprintf("%s ($%s spend)", highest.product, formatMoney(highest.cost))
	}

	velocityText := strings.Join(VelocityInsights(weeks), "\n")
	if velocityText == "" {
		velocityText = "Insufficient data for week-over-week comparison"
	}

	weekLines := make([]string, len(weeks))
	for i, w := range weeks {
		weekLines[i] = fmt.Sprintf("- %s: Day 0 ROAS %.1f%%, Day 3 ROAS %.1f%%, Day 7 ROAS %.1f%% (Status: %s)",
			w.Label, w.RoasD0, w.RoasD3, w.RoasD7, w.Status)
	}

	// Profit leaderboard over per-campaign totals.
	type campaignLine struct {
		name         string
		roas, profit float64
	}
	leaderboard := make([]campaignLine, 0, len(campaignStats))
	for name, cs := range campaignStats {
		leaderboard = append(leaderboard, campaignLine{
			name:   name,
			roas:   safeRatio(cs.revenue, cs.cost) * 100,
			profit: cs.revenue - cs.cost,
		})
	}
	sort.SliceStable(leaderboard, func(i, j int) bool {
		if leaderboard[i].profit != leaderboard[j].profit {
			return leaderboard[i].profit > leaderboard[j].profit
		}
		return leaderboard[i].name < leaderboard[j].name
	})

	performerLines := func(entries []campaignLine) string {
		if len(entries) == 0 {
			return "No data available"
		}
		lines := make([]string, len(entries))
		for i, c := range entries {
			lines[i] = fmt.Sprintf("%d. %s: ROAS %.1f%%, Profit $%s", i+1, c.name, c.roas, formatMoney(c.profit))
		}
		return strings.Join(lines, "\n")
	}

	topN := len(leaderboard)
	if topN > 3 {
		topN = 3
	}
	top := leaderboard[:topN]

	bottom := make([]campaignLine, 0, 3)
	for i := len(leaderboard) - 1; i >= 0 && len(bottom) < 3; i-- {
		bottom = append(bottom, leaderboard[i])
	}

	return fmt.Sprintf(`CAMPAIGN PERFORMANCE SUMMARY WITH COHORT ANOMALY DETECTION

SEASONALITY CONTEXT:
%s

CONTEXT:
- Filter: %s / %s
- Report Period: %s
- Total Data Rows: %d
- Unique Campaigns: %d

GLOBAL BENCHMARK ROAS CURVE:
- Day 0: %.2f%%
- Day 3: %.2f%%
- Day 7: %.2f%%

PRODUCT WINNERS:
Best ROAS: %s | Highest Volume: %s

COHORT VELOCITY (Week-over-Week Day 0 ROAS):
%s

WEEKLY COHORT ANALYSIS:
%s

GLOBAL BENCHMARKS:
- TOTAL SPEND: $%s
- TOTAL REVENUE (Final): $%s
- TOTAL PROFIT: $%s
- TOTAL ROAS (Final): %.2f%%

TOP 3 PERFORMERS (by Profit):
%s

BOTTOM 3 PERFORMERS (by Profit):
%s

INSTRUCTIONS FOR AI:
1. Identify specific weeks that deviate from the Benchmark (look for Underperforming or Outperforming flags)
2. If a week starts strong (High Day 0) but flattens (Low Day 7), point it out as "Retention Issue"
3. Mention specific "Week X" and "Day Y" anomalies in your response
4. Keep it brief and actionable
5. Use ONLY the data provided above - do NOT calculate totals yourself

METHODOLOGY NOTE:
Revenue is calculated from cumulative day columns using the formula:
(Transfer GMV x 0.7%%) + (Purchase GMV x 0.635%%)`,
		SeasonalityContext(dateRange),
		category, source, dateRange, len(daily), len(campaignStats),
		bench.D0, bench.D3, bench.D7,
		bestROAS, highestVolume,
		velocityText,
		strings.Join(weekLines, "\n"),
		formatMoney(totalCost), formatMoney(totalRevenueFinal), formatMoney(totalProfit), globalROAS,
		performerLines(top),
		performerLines(bottom),
	)
}

// SeasonalityContext maps a report period onto the promotional calendar.
// The range must parse as "Jan 02, 2006 - Jan 02, 2006"; anything else is
// treated as the standard season.
func SeasonalityContext(dateRange string) string {
	parts := strings.SplitN(dateRange, " - ", 2)
	if len(parts) != 2 {
		return seasonStandard
	}
	start, err := time.Parse(reportPeriodLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return seasonStandard
	}
	end, err := time.Parse(reportPeriodLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return seasonStandard
	}

	overlaps := func(winStart, winEnd time.Time) bool {
		return !start.After(winEnd) && !end.Before(winStart)
	}

	// Black Friday and New Year windows sit in the start year; the
	// post-holiday window is January of the end year.
	switch {
	case overlaps(time.Date(start.Year(), time.November, 20, 0, 0, 0, 0, time.UTC),
		time.Date(start.Year(), time.November, 30, 0, 0, 0, 0, time.UTC)):
		return seasonBlackFriday
	case overlaps(time.Date(start.Year(), time.December, 20, 0, 0, 0, 0, time.UTC),
		time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)):
		return seasonNewYear
	case overlaps(time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), time.January, 10, 0, 0, 0, 0, time.UTC)):
		return seasonPostHoliday
	}
	return seasonStandard
}

// formatMoney renders an amount with thousands separators, keeping two
// decimals only when the amount is fractional.
func formatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
