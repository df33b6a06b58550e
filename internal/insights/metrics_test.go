package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/vector-insights/internal/models"
)

func TestCalculateMetricsTotals(t *testing.T) {
	campaigns := []models.ProcessedCampaign{
		{Category: models.CategoryP2P, Cost: 1000, Revenue: 2000, Profit: 1000, Installs: 400, Cards: 20, Subs: 5},
		{Category: models.CategoryPayments, Cost: 500, Revenue: 250, Profit: -250, Installs: 100, Cards: 0, Subs: 0},
	}

	m := CalculateMetrics(campaigns)

	assert.Equal(t, 1500.0, m.TotalSpend)
	assert.Equal(t, 2250.0, m.TotalRevenue)
	assert.Equal(t, 750.0, m.TotalProfit)
	assert.Equal(t, 500.0, m.TotalInstalls)
	assert.InDelta(t, 150, m.AvgRoas, 1e-9)
	assert.InDelta(t, 3, m.AvgCpi, 1e-9)
	assert.InDelta(t, 75, m.AvgCpaCards, 1e-9)
	assert.InDelta(t, 300, m.AvgCpaSubs, 1e-9)
}

func TestCalculateMetricsZeroDenominators(t *testing.T) {
	m := CalculateMetrics([]models.ProcessedCampaign{
		{Category: models.CategoryOther, Cost: 0, Revenue: 0},
	})
	assert.Zero(t, m.AvgRoas)
	assert.Zero(t, m.AvgCpi)
	assert.Zero(t, m.AvgCpaCards)
	assert.Zero(t, m.AvgCpaSubs)
}

func TestCalculateMetricsSplits(t *testing.T) {
	campaigns := []models.ProcessedCampaign{
		{Category: models.CategoryP2P, Cost: 750},
		{Category: models.CategoryPaymePlus, Cost: 250},
		{Category: models.CategoryReach, Cost: 0},
	}

	m := CalculateMetrics(campaigns)

	require.Len(t, m.SpendSplit, 2, "zero-spend categories are dropped")
	assert.Equal(t, models.CategoryP2P, m.SpendSplit[0].Product)
	assert.InDelta(t, 75, m.SpendSplit[0].Percentage, 1e-9)
	assert.Equal(t, models.CategoryPaymePlus, m.SpendSplit[1].Product)
	assert.InDelta(t, 25, m.SpendSplit[1].Percentage, 1e-9)
	assert.Empty(t, m.RevenueSplit)
}

// The unfiltered aggregation followed by the rollup must reproduce the raw
// sums of the summary table.
func TestMetricsRoundTrip(t *testing.T) {
	records := []models.SummaryRecord{
		{CampaignName: "UZ_P2P_Android", Cost: 1000, Revenue: 2500, Profit: 1500, Installs: 100, Position: 1},
		{CampaignName: "UZ_PFM_iOS", Cost: 400, Revenue: 300, Profit: -100, Installs: 40, Position: 2},
		{CampaignName: "UZ_Reach_Web", Cost: 600, Revenue: 660, Profit: 60, Installs: 60, Position: 3},
	}
	campaigns := ProcessSummary(records)
	res := AggregateData(campaigns, nil, models.FilterAll, models.FilterAll, "")
	m := CalculateMetrics(res.Campaigns)

	var wantSpend, wantRevenue float64
	for _, r := range records {
		wantSpend += r.Cost
		wantRevenue += r.Revenue
	}
	assert.InDelta(t, wantSpend, m.TotalSpend, 1e-9)
	assert.InDelta(t, wantRevenue, m.TotalRevenue, 1e-9)
}
