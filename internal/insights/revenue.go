package insights

import "github.com/radiusdt/vector-insights/internal/models"

// Commission rates applied to the two cumulative transaction-volume streams
// to turn gross volume into business revenue.
const (
	transferCommission = 0.007
	purchaseCommission = 0.00635
)

// RevenueAtDay returns the business revenue measured N days since install
// for one campaign-day row.  Missing cells contribute 0.
func RevenueAtDay(row models.DayRow, day int) float64 {
	cell := row.RevenueCells[day]
	return cell.Transfer*transferCommission + cell.Purchase*purchaseCommission
}

// LatestAvailableRevenue returns the business revenue at the largest
// days-since-install offset that has a non-zero transaction volume.  The
// revenue columns are cumulative to their offset, so the most mature
// populated offset is the best available estimate; summing across offsets
// would double count.  Returns 0 when no cell is populated.
func LatestAvailableRevenue(row models.DayRow) float64 {
	maxDay := -1
	for day, cell := range row.RevenueCells {
		if cell.Transfer == 0 && cell.Purchase == 0 {
			continue
		}
		if day > maxDay {
			maxDay = day
		}
	}
	if maxDay < 0 {
		return 0
	}
	return RevenueAtDay(row, maxDay)
}
