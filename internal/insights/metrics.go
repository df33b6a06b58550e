package insights

import "github.com/radiusdt/vector-insights/internal/models"

// splitProducts is the fixed display order of the product split charts.
var splitProducts = []models.Category{
	models.CategoryP2P,
	models.CategoryPaymePlus,
	models.CategoryPayments,
	models.CategoryReach,
}

// CalculateMetrics rolls a campaign set up into dashboard totals, weighted
// averages and per-category percentage splits.  Averages are spend-weighted,
// not means of per-campaign ratios, and follow the zero-denominator policy.
func CalculateMetrics(campaigns []models.ProcessedCampaign) models.DashboardMetrics {
	var m models.DashboardMetrics
	for _, c := range campaigns {
		m.TotalSpend += c.Cost
		m.TotalRevenue += c.Revenue
		m.TotalProfit += c.Profit
		m.TotalInstalls += c.Installs
		m.TotalCards += c.Cards
		m.TotalSubs += c.Subs
	}

	m.AvgRoas = safeRatio(m.TotalRevenue, m.TotalSpend) * 100
	m.AvgCpi = safeRatio(m.TotalSpend, m.TotalInstalls)
	m.AvgCpaCards = safeRatio(m.TotalSpend, m.TotalCards)
	m.AvgCpaSubs = safeRatio(m.TotalSpend, m.TotalSubs)

	m.SpendSplit = calculateSplit(campaigns, func(c models.ProcessedCampaign) float64 { return c.Cost })
	m.RevenueSplit = calculateSplit(campaigns, func(c models.ProcessedCampaign) float64 { return c.Revenue })
	m.ProfitSplit = calculateSplit(campaigns, func(c models.ProcessedCampaign) float64 { return c.Profit })
	m.InstallsSplit = calculateSplit(campaigns, func(c models.ProcessedCampaign) float64 { return c.Installs })
	m.CardsSplit = calculateSplit(campaigns, func(c models.ProcessedCampaign) float64 { return c.Cards })
	m.SubsSplit = calculateSplit(campaigns, func(c models.ProcessedCampaign) float64 { return c.Subs })

	return m
}

// calculateSplit sums one metric per product category and converts the sums
// to shares of the category total.  Zero-valued categories are dropped.
func calculateSplit(campaigns []models.ProcessedCampaign, metric func(models.ProcessedCampaign) float64) []models.ProductSplit {
	splits := make([]models.ProductSplit, 0, len(splitProducts))
	var total float64
	for _, product := range splitProducts {
		var value float64
		for _, c := range campaigns {
			if c.Category == product {
				value += metric(c)
			}
		}
		total += value
		splits = append(splits, models.ProductSplit{Product: product, Value: value})
	}

	out := splits[:0]
	for _, s := range splits {
		if s.Value <= 0 {
			continue
		}
		if total > 0 {
			s.Percentage = s.Value / total * 100
		}
		out = append(out, s)
	}
	return out
}
