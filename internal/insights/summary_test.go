package insights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/vector-insights/internal/models"
)

func TestBuildSummaryTextNoData(t *testing.T) {
	text := BuildSummaryText(nil, "Unknown", "P2P", "Facebook")

	assert.True(t, strings.HasPrefix(text, NoDataSentinel))
	assert.Contains(t, text, "- Product: P2P")
	assert.Contains(t, text, "- Source: Facebook")
	assert.Contains(t, text, "- Report Period: Unknown")
}

func TestBuildSummaryTextSections(t *testing.T) {
	text := BuildSummaryText(twoWeekDaily(), "Oct 28, 2024 - Nov 04, 2024", models.FilterAll, models.FilterAll)

	sections := []string{
		"CAMPAIGN PERFORMANCE SUMMARY WITH COHORT ANOMALY DETECTION",
		"SEASONALITY CONTEXT:",
		"CONTEXT:",
		"GLOBAL BENCHMARK ROAS CURVE:",
		"PRODUCT WINNERS:",
		"COHORT VELOCITY (Week-over-Week Day 0 ROAS):",
		"WEEKLY COHORT ANALYSIS:",
		"GLOBAL BENCHMARKS:",
		"TOP 3 PERFORMERS (by Profit):",
		"BOTTOM 3 PERFORMERS (by Profit):",
		"INSTRUCTIONS FOR AI:",
		"METHODOLOGY NOTE:",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(text, section)
		require.NotEqual(t, -1, idx, "missing section %q", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}

	assert.Contains(t, text, "- Total Data Rows: 2")
	assert.Contains(t, text, "- Unique Campaigns: 1")
	// Day-0 benchmark of the fixture: 206.75/3000*100.
	assert.Contains(t, text, "- Day 0: 6.89%")
	assert.Contains(t, text, "- TOTAL SPEND: $3,000")
	assert.Contains(t, text, "- Week 44: Day 0 ROAS 8.3%")
	assert.Contains(t, text, "- Week 45: Day 0 ROAS 6.2%")
}

// The structured snapshot and the rendered text are two views of the same
// computation, so the numbers they expose must match.
func TestSummaryAndSnapshotAgree(t *testing.T) {
	daily := twoWeekDaily()
	text := BuildSummaryText(daily, "Oct 28, 2024 - Nov 04, 2024", models.FilterAll, models.FilterAll)
	curve := ComputeBenchmarkCurve(daily)

	assert.Contains(t, text, "- Day 0: 6.89%")
	assert.InDelta(t, 6.8917, curve.D0, 1e-3)
}

func TestSeasonalityContext(t *testing.T) {
	tests := []struct {
		name      string
		dateRange string
		want      string
	}{
		{"black friday overlap", "Nov 18, 2024 - Nov 25, 2024", seasonBlackFriday},
		{"new year overlap", "Dec 22, 2024 - Dec 28, 2024", seasonNewYear},
		{"post holiday overlap", "Jan 02, 2025 - Jan 08, 2025", seasonPostHoliday},
		{"standard season", "Mar 01, 2025 - Mar 10, 2025", seasonStandard},
		{"black friday wins over new year", "Nov 25, 2024 - Dec 22, 2024", seasonBlackFriday},
		{"unparseable", "last month", seasonStandard},
		{"missing separator", "Nov 18, 2024", seasonStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonalityContext(tt.dateRange))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{3000, "3,000"},
		{1234567, "1,234,567"},
		{219.75, "219.75"},
		{1234.5, "1,234.5"},
		{-12500, "-12,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in), "formatMoney(%v)", tt.in)
	}
}
