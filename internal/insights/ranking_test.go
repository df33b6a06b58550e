package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/vector-insights/internal/models"
)

func TestProcessSummaryExcludesZeroSpend(t *testing.T) {
	campaigns := ProcessSummary([]models.SummaryRecord{
		{CampaignName: "active", Cost: 100, Revenue: 200, Installs: 50, Position: 1},
		{CampaignName: "paused", Cost: 0, Revenue: 500, Installs: 10, Position: 2},
	})

	require.Len(t, campaigns, 1)
	assert.Equal(t, "active", campaigns[0].CampaignName)
}

func TestProcessSummaryDerivedFields(t *testing.T) {
	campaigns := ProcessSummary([]models.SummaryRecord{
		{
			CampaignName: "UZ_P2P_Android",
			MediaSource:  "Facebook Ads",
			Cost:         1000,
			Revenue:      2500,
			Profit:       1500,
			Installs:     500,
			Cards:        25,
			Subs:         0,
			Position:     1,
		},
	})

	require.Len(t, campaigns, 1)
	c := campaigns[0]
	assert.Equal(t, models.CategoryP2P, c.Category)
	assert.Equal(t, models.SourceFacebook, c.NormalizedSource)
	assert.InDelta(t, 250, c.Roas, 1e-9)
	assert.InDelta(t, 2, c.Cpi, 1e-9)
	assert.InDelta(t, 40, c.CpaCards, 1e-9)
	assert.Zero(t, c.CpaSubs, "zero conversions give a zero CPA, never an infinity")
}

func TestProcessSummaryScore(t *testing.T) {
	// One campaign: roasScore is the full 50 (own ROAS is the max), the CPI
	// spread is 1.0-0.01 with the campaign at the expensive end (score 0),
	// volume adds installs/1000 capped at 20.
	campaigns := ProcessSummary([]models.SummaryRecord{
		{CampaignName: "solo", Cost: 1000, Revenue: 2000, Installs: 1000, Position: 1},
	})
	require.Len(t, campaigns, 1)
	assert.Equal(t, 51, campaigns[0].PIScore)
	assert.Equal(t, 1, campaigns[0].Rank)
	assert.Equal(t, 1, campaigns[0].GlobalRank)
}

func TestProcessSummaryVolumeCap(t *testing.T) {
	campaigns := ProcessSummary([]models.SummaryRecord{
		{CampaignName: "huge", Cost: 1000, Revenue: 1000, Installs: 500000, Position: 1},
	})
	require.Len(t, campaigns, 1)
	// 50 (max ROAS) + cpiScore + 20 (capped volume).  cpi = 0.002 < 0.01
	// becomes the min of the spread, so cpiScore is the full 30.
	assert.Equal(t, 100, campaigns[0].PIScore)
}

func TestProcessSummaryRankOrder(t *testing.T) {
	campaigns := ProcessSummary([]models.SummaryRecord{
		{CampaignName: "weak", Cost: 1000, Revenue: 100, Installs: 10, Position: 1},
		{CampaignName: "strong", Cost: 1000, Revenue: 5000, Installs: 2000, Position: 2},
		{CampaignName: "middle", Cost: 1000, Revenue: 2000, Installs: 500, Position: 3},
	})

	require.Len(t, campaigns, 3)
	assert.Equal(t, "strong", campaigns[0].CampaignName)
	assert.Equal(t, "middle", campaigns[1].CampaignName)
	assert.Equal(t, "weak", campaigns[2].CampaignName)
	for i, c := range campaigns {
		assert.Equal(t, i+1, c.Rank)
		assert.Equal(t, i+1, c.GlobalRank)
		assert.GreaterOrEqual(t, c.PIScore, 0)
		assert.LessOrEqual(t, c.PIScore, 100)
	}
}

func TestProcessSummaryEmpty(t *testing.T) {
	assert.Empty(t, ProcessSummary(nil))
	assert.Empty(t, ProcessSummary([]models.SummaryRecord{{CampaignName: "free", Cost: 0}}))
}
