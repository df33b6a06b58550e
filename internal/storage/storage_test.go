package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiusdt/vector-insights/internal/models"
)

func TestDatasetStoreVersioning(t *testing.T) {
	store := NewDatasetStore()
	v0 := store.Current().Version
	require.NotEmpty(t, v0)

	ds := store.SetSummary([]models.ProcessedCampaign{{ID: "c1", CampaignName: "uz_p2p_promo"}})
	assert.NotEqual(t, v0, ds.Version)
	assert.Len(t, ds.Summary, 1)

	ds2 := store.SetDaily([]models.DayRow{{CampaignName: "uz_p2p_promo"}}, "2024-11-04 to 2024-11-10")
	assert.NotEqual(t, ds.Version, ds2.Version)
	// Summary half survives a daily upload.
	assert.Len(t, ds2.Summary, 1)
	assert.Equal(t, "2024-11-04 to 2024-11-10", ds2.DateRange)
}

func TestDatasetStoreReplace(t *testing.T) {
	store := NewDatasetStore()
	store.SetSummary([]models.ProcessedCampaign{{ID: "old"}})

	ds := store.Replace(
		[]models.ProcessedCampaign{{ID: "new"}},
		[]models.DayRow{{CampaignName: "uz_reach_brand"}},
		"2024-12-01 to 2024-12-07",
	)
	require.Len(t, ds.Summary, 1)
	assert.Equal(t, "new", ds.Summary[0].ID)
	assert.Len(t, ds.Daily, 1)
}

func TestInMemoryReportRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryReportRepo()

	got, err := repo.GetReport(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	older := &models.Report{ID: "r1", Name: "November cohorts", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Report{ID: "r2", Name: "December cohorts", CreatedAt: time.Now()}
	require.NoError(t, repo.SaveReport(ctx, older))
	require.NoError(t, repo.SaveReport(ctx, newer))

	list, err := repo.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)

	got, err = repo.GetReport(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "November cohorts", got.Name)

	deleted, err := repo.DeleteReport(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteReport(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestInMemoryReportRepoCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryReportRepo()

	rep := &models.Report{ID: "r1", Name: "original"}
	require.NoError(t, repo.SaveReport(ctx, rep))
	rep.Name = "mutated"

	got, err := repo.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name)
}
