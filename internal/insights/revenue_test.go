package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radiusdt/vector-insights/internal/models"
)

func TestRevenueAtDay(t *testing.T) {
	row := models.DayRow{RevenueCells: map[int]models.RevenueCell{
		0: {Transfer: 10000, Purchase: 2000},
		7: {Transfer: 0, Purchase: 4000},
	}}

	// 10000*0.007 + 2000*0.00635
	assert.InDelta(t, 82.7, RevenueAtDay(row, 0), 1e-9)
	assert.InDelta(t, 25.4, RevenueAtDay(row, 7), 1e-9)
	assert.Zero(t, RevenueAtDay(row, 3), "missing cell contributes nothing")
	assert.Zero(t, RevenueAtDay(models.DayRow{}, 0))
}

func TestLatestAvailableRevenue(t *testing.T) {
	tests := []struct {
		name  string
		cells map[int]models.RevenueCell
		want  float64
	}{
		{
			// The columns are cumulative, so only the most mature populated
			// offset counts; summing across offsets would double count.
			name: "largest populated day wins",
			cells: map[int]models.RevenueCell{
				0:  {Transfer: 100},
				7:  {Transfer: 500, Purchase: 20},
				14: {},
			},
			want: 500*0.007 + 20*0.00635,
		},
		{
			name:  "single day",
			cells: map[int]models.RevenueCell{3: {Purchase: 1000}},
			want:  1000 * 0.00635,
		},
		{
			name:  "all cells zero",
			cells: map[int]models.RevenueCell{0: {}, 7: {}},
			want:  0,
		},
		{
			name: "no cells",
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatestAvailableRevenue(models.DayRow{RevenueCells: tt.cells})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
