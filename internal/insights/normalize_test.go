package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/vector-insights/internal/models"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0},
		{"plain integer", "42", 42},
		{"plain float", "12.75", 12.75},
		{"currency with separators", "$1,234.50", 1234.50},
		{"negative", "-12.5", -12.5},
		{"spaces as separators", "1 000", 1000},
		{"non numeric", "abc", 0},
		{"garbage mix", "12-3", 0},
		{"percent suffix", "85%", 85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		name     string
		campaign string
		want     models.Category
	}{
		{"reach", "UZ_Reach_Android", models.CategoryReach},
		{"reach wins over sub", "Reach_subscribers", models.CategoryReach},
		{"paymeplus", "PaymePlus_promo", models.CategoryPaymePlus},
		{"pfm maps to paymeplus", "UZ_PFM_iOS", models.CategoryPaymePlus},
		{"sub maps to paymeplus", "subscription_drive", models.CategoryPaymePlus},
		{"pfm wins over payment", "PFM_payment_push", models.CategoryPaymePlus},
		{"p2p", "P2P_retargeting", models.CategoryP2P},
		{"transfer", "money_transfer_q4", models.CategoryP2P},
		{"payments", "bill_payments", models.CategoryPayments},
		{"other", "brand_awareness", models.CategoryOther},
		{"case insensitive", "REACH CAMPAIGN", models.CategoryReach},
		{"empty", "", models.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCategory(tt.campaign))
		})
	}
}

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   models.Source
	}{
		{"facebook", "Facebook Ads", models.SourceFacebook},
		{"instagram", "instagram_stories", models.SourceFacebook},
		{"meta", "Meta Audience Network", models.SourceFacebook},
		{"google", "googleadwords_int", models.SourceGoogle},
		{"youtube", "YouTube", models.SourceGoogle},
		{"gdn", "GDN display", models.SourceGoogle},
		{"bigo", "bigo_int", models.SourceBigo},
		{"unknown network", "unityads_int", models.SourceOther},
		{"empty", "", models.SourceOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySource(tt.source))
		})
	}
}

func TestNormalizeDayRow(t *testing.T) {
	record := map[string]string{
		ColDate:        "2024-10-28",
		ColCampaign:    "UZ_P2P_Android",
		ColMediaSource: "Facebook Ads",
		ColCost:        "$1,000",
		ColRevenue:     "150.5",
		ColInstalls:    "320",
		ColCards:       "12",
		ColSubs:        "4",
		"Revenue 0 days cumulative appsflyer af_transfer_completed": "10000",
		"Revenue 0 days cumulative appsflyer af_purchase":           "2000",
		"Revenue 7 days cumulative appsflyer af_transfer_completed": "15,500",
		"Unique users ltv days cumulative appsflyer af_card_add_fin_extra": "ignored",
	}

	row := NormalizeDayRow(record)

	require.True(t, row.HasDate)
	assert.Equal(t, "2024-10-28", row.Date.Format("2006-01-02"))
	assert.Equal(t, "UZ_P2P_Android", row.CampaignName)
	assert.Equal(t, 1000.0, row.Cost)
	assert.Equal(t, 150.5, row.Revenue)
	assert.Equal(t, 320.0, row.Installs)

	require.Contains(t, row.RevenueCells, 0)
	assert.Equal(t, models.RevenueCell{Transfer: 10000, Purchase: 2000}, row.RevenueCells[0])
	require.Contains(t, row.RevenueCells, 7)
	assert.Equal(t, 15500.0, row.RevenueCells[7].Transfer)
	assert.NotContains(t, row.RevenueCells, 3)
}

func TestNormalizeDayRowBadDate(t *testing.T) {
	for _, date := range []string{"", "bogus", "28/10/2024"} {
		row := NormalizeDayRow(map[string]string{ColDate: date, ColCampaign: "x"})
		assert.False(t, row.HasDate, "date %q should not parse", date)
	}
}

func TestNormalizeSummaryRecord(t *testing.T) {
	rec := NormalizeSummaryRecord(map[string]string{
		ColCampaign:    "UZ_PFM_iOS",
		ColMediaSource: "googleadwords_int",
		ColCost:        "2,500.25",
		ColRevenue:     "5000",
		ColProfit:      "2499.75",
		ColInstalls:    "1200",
	}, 3)

	assert.Equal(t, "UZ_PFM_iOS", rec.CampaignName)
	assert.Equal(t, 2500.25, rec.Cost)
	assert.Equal(t, 5000.0, rec.Revenue)
	assert.Equal(t, 2499.75, rec.Profit)
	assert.Equal(t, 1200.0, rec.Installs)
	assert.Equal(t, 3, rec.Position)
	assert.Zero(t, rec.Cards)
}
