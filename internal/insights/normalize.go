package insights

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
)

// Column names used by the attribution exports.  The revenue-at-day columns
// follow the pattern "Revenue <N> days cumulative appsflyer <event>" and are
// matched dynamically.
const (
	ColDate        = "Date"
	ColCampaign    = "Campaign"
	ColMediaSource = "Media source"
	ColCost        = "Cost"
	ColRevenue     = "revenue_payme"
	ColProfit      = "gross_profit_payme"
	ColInstalls    = "Installs appsflyer"
	ColCards       = "Unique users ltv days cumulative appsflyer af_card_add_fin"
	ColSubs        = "Unique users ltv days cumulative appsflyer af_s2s_subscription_activated"

	transferEvent = "af_transfer_completed"
	purchaseEvent = "af_purchase"
)

var revenueDayPattern = regexp.MustCompile(`Revenue\s+(\d+)\s+days`)

var nonNumeric = regexp.MustCompile(`[^0-9.-]+`)

// ParseNumber coerces a raw export value into a float.  Currency symbols,
// thousands separators and surrounding noise are stripped; empty or
// unparseable input yields 0.  It never fails.
func ParseNumber(val string) float64 {
	if val == "" {
		return 0
	}
	clean := nonNumeric.ReplaceAllString(val, "")
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return n
}

// ClassifyCategory derives the product category from a campaign name.
// Rules are case-insensitive substring matches evaluated in a fixed
// priority order; the first match wins.  This is the only category
// classifier in the codebase and every consumer must go through it.
func ClassifyCategory(campaignName string) models.Category {
	name := strings.ToLower(campaignName)
	switch {
	case strings.Contains(name, "reach"):
		return models.CategoryReach
	case strings.Contains(name, "paymeplus"), strings.Contains(name, "pfm"), strings.Contains(name, "sub"):
		return models.CategoryPaymePlus
	case strings.Contains(name, "p2p"), strings.Contains(name, "transfer"):
		return models.CategoryP2P
	case strings.Contains(name, "payment"):
		return models.CategoryPayments
	}
	return models.CategoryOther
}

// ClassifySource maps a raw media-source string to a canonical channel.
func ClassifySource(mediaSource string) models.Source {
	s := strings.ToLower(mediaSource)
	switch {
	case strings.Contains(s, "facebook"), strings.Contains(s, "instagram"), strings.Contains(s, "meta"):
		return models.SourceFacebook
	case strings.Contains(s, "google"), strings.Contains(s, "youtube"), strings.Contains(s, "gdn"):
		return models.SourceGoogle
	case strings.Contains(s, "bigo"):
		return models.SourceBigo
	}
	return models.SourceOther
}

// NormalizeDayRow turns one string-keyed record from the daily cohort export
// into a DayRow.  The sparse "Revenue N days" wide columns are collapsed
// into a day-indexed cell map once here, so no later component re-derives
// column names by string interpolation.  A missing or malformed date leaves
// HasDate false; the row is then excluded from date-keyed aggregation but
// still contributes to campaign totals.
func NormalizeDayRow(record map[string]string) models.DayRow {
	row := models.DayRow{
		CampaignName: record[ColCampaign],
		MediaSource:  record[ColMediaSource],
		Cost:         ParseNumber(record[ColCost]),
		Revenue:      ParseNumber(record[ColRevenue]),
		Installs:     ParseNumber(record[ColInstalls]),
		Cards:        ParseNumber(record[ColCards]),
		Subs:         ParseNumber(record[ColSubs]),
	}

	if d, err := time.Parse("2006-01-02", strings.TrimSpace(record[ColDate])); err == nil {
		row.Date = d
		row.HasDate = true
	}

	for key, val := range record {
		m := revenueDayPattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		day, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		isTransfer := strings.Contains(key, transferEvent)
		isPurchase := strings.Contains(key, purchaseEvent)
		if !isTransfer && !isPurchase {
			continue
		}

		if row.RevenueCells == nil {
			row.RevenueCells = make(map[int]models.RevenueCell)
		}
		cell := row.RevenueCells[day]
		if isTransfer {
			cell.Transfer = ParseNumber(val)
		} else {
			cell.Purchase = ParseNumber(val)
		}
		row.RevenueCells[day] = cell
	}

	return row
}

// NormalizeSummaryRecord turns one string-keyed record from the per-campaign
// summary export into a SummaryRecord.  Position is the 1-based row index in
// the export, kept as the provisional order before scoring.
func NormalizeSummaryRecord(record map[string]string, position int) models.SummaryRecord {
	return models.SummaryRecord{
		CampaignName: record[ColCampaign],
		MediaSource:  record[ColMediaSource],
		Cost:         ParseNumber(record[ColCost]),
		Revenue:      ParseNumber(record[ColRevenue]),
		Profit:       ParseNumber(record[ColProfit]),
		Installs:     ParseNumber(record[ColInstalls]),
		Cards:        ParseNumber(record[ColCards]),
		Subs:         ParseNumber(record[ColSubs]),
		Position:     position,
	}
}
