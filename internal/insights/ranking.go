package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/radiusdt/vector-insights/internal/models"
)

// PI score weights.  ROAS contributes up to 50 points, CPI efficiency up to
// 30 and install volume up to 20, so the composite stays within 0-100.
const (
	piRoasWeight   = 50.0
	piCpiWeight    = 30.0
	piVolumeWeight = 20.0
)

// ProcessSummary turns summary records into the ranked campaign universe.
// Campaigns with zero spend are excluded from the leaderboard entirely (they
// still reach category breakdowns through other paths).  Scores are min-max
// normalized against the surviving set, so a PI score is only meaningful
// relative to its own aggregation pass.
//
// Both Rank and GlobalRank are assigned here against the unfiltered
// universe; later filtering reassigns Rank but must never touch GlobalRank.
func ProcessSummary(records []models.SummaryRecord) []models.ProcessedCampaign {
	campaigns := make([]models.ProcessedCampaign, 0, len(records))
	for i, rec := range records {
		name := rec.CampaignName
		id := name
		if id == "" {
			id = fmt.Sprintf("campaign-%d", i)
		}

		c := models.ProcessedCampaign{
			ID:               id,
			Rank:             rec.Position,
			GlobalRank:       rec.Position,
			Category:         ClassifyCategory(name),
			CampaignName:     name,
			MediaSource:      rec.MediaSource,
			NormalizedSource: ClassifySource(rec.MediaSource),
			Cost:             rec.Cost,
			Revenue:          rec.Revenue,
			Profit:           rec.Profit,
			Installs:         rec.Installs,
			Cards:            rec.Cards,
			Subs:             rec.Subs,
		}
		c.Roas = safeRatio(rec.Revenue, rec.Cost) * 100
		c.Cpi = safeRatio(rec.Cost, rec.Installs)
		c.CpaCards = safeRatio(rec.Cost, rec.Cards)
		c.CpaSubs = safeRatio(rec.Cost, rec.Subs)

		if c.Cost <= 0 {
			continue
		}
		campaigns = append(campaigns, c)
	}

	if len(campaigns) == 0 {
		return campaigns
	}

	maxRoas := 1.0
	minCpi := 0.01
	maxCpi := 1.0
	for _, c := range campaigns {
		if c.Roas > maxRoas {
			maxRoas = c.Roas
		}
		if c.Cpi > 0 && c.Cpi < minCpi {
			minCpi = c.Cpi
		}
		if c.Cpi > maxCpi {
			maxCpi = c.Cpi
		}
	}

	for i := range campaigns {
		c := &campaigns[i]
		roasScore := c.Roas / maxRoas * piRoasWeight
		// Flat midpoint when every campaign has the same CPI: there is no
		// spread to normalize against.
		cpiScore := piCpiWeight / 2
		if maxCpi > minCpi {
			cpiScore = (maxCpi - c.Cpi) / (maxCpi - minCpi) * piCpiWeight
		}
		volumeScore := math.Min(c.Installs/1000, piVolumeWeight)
		c.PIScore = int(math.Round(roasScore + cpiScore + volumeScore))
	}

	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].PIScore > campaigns[j].PIScore
	})
	for i := range campaigns {
		campaigns[i].Rank = i + 1
		campaigns[i].GlobalRank = i + 1
	}

	return campaigns
}

// safeRatio divides a by b with the zero-denominator policy: 0, never NaN
// or an infinity.
func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
