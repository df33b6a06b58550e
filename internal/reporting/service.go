package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/radiusdt/vector-insights/internal/insights"
	"github.com/radiusdt/vector-insights/internal/metrics"
	"github.com/radiusdt/vector-insights/internal/models"
	"github.com/radiusdt/vector-insights/internal/storage"
)

// Filters is the three-way filter state every analysis endpoint accepts.
// Empty Category or Source means "All"; Campaign drills down to a single
// campaign and overrides the other two for the daily series.
type Filters struct {
	Category string
	Source   string
	Campaign string
}

func (f Filters) normalized() Filters {
	if f.Category == "" {
		f.Category = models.FilterAll
	}
	if f.Source == "" {
		f.Source = models.FilterAll
	}
	return f
}

// DashboardPayload is the full dashboard response for one filter state.
type DashboardPayload struct {
	Campaigns      []models.ProcessedCampaign `json:"campaigns"`
	ChartData      []models.ChartPoint        `json:"chartData"`
	CohortData     []models.CohortPoint       `json:"cohortData"`
	WeekLabels     []string                   `json:"weekLabels"`
	Metrics        models.DashboardMetrics    `json:"metrics"`
	DateRange      string                     `json:"dateRange"`
	DatasetVersion string                     `json:"datasetVersion"`
}

// AnalysisPayload pairs the structured snapshot with the text summary fed
// to external analysis collaborators.
type AnalysisPayload struct {
	Snapshot       models.AnalysisSnapshot `json:"snapshot"`
	SummaryText    string                  `json:"summaryText"`
	DateRange      string                  `json:"dateRange"`
	DatasetVersion string                  `json:"datasetVersion"`
}

// Service computes analysis payloads over the active dataset, caching
// rendered results in Redis keyed by dataset version and filter state.
// A nil Redis client disables caching.
type Service struct {
	store   *storage.DatasetStore
	cache   *redis.Client
	cfg     config.CacheConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewService(store *storage.DatasetStore, cache *redis.Client, cfg config.CacheConfig, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{store: store, cache: cache, cfg: cfg, metrics: m, logger: logger}
}

// Dashboard returns the campaign table, trend series, cohort matrix and
// headline metrics for the filter state.
func (s *Service) Dashboard(ctx context.Context, f Filters) (*DashboardPayload, error) {
	f = f.normalized()
	ds := s.store.Current()
	key := s.cacheKey("dashboard", ds.Version, f)

	began := time.Now()
	var cached DashboardPayload
	if s.cacheGet(ctx, key, &cached) {
		s.metrics.RecordAnalysis("dashboard", "hit", time.Since(began))
		return &cached, nil
	}

	agg := insights.AggregateData(ds.Summary, ds.Daily, f.Category, f.Source, f.Campaign)
	payload := &DashboardPayload{
		Campaigns:      agg.Campaigns,
		ChartData:      agg.ChartData,
		CohortData:     agg.CohortData,
		WeekLabels:     agg.WeekLabels,
		Metrics:        insights.CalculateMetrics(agg.Campaigns),
		DateRange:      ds.DateRange,
		DatasetVersion: ds.Version,
	}

	s.cacheSet(ctx, key, payload)
	s.metrics.RecordAnalysis("dashboard", "miss", time.Since(began))
	return payload, nil
}

// Analysis returns the deterministic snapshot plus the text summary for
// the filter state.  Campaign drill-down does not apply here; the
// analysis always describes the category/source slice.
func (s *Service) Analysis(ctx context.Context, f Filters) (*AnalysisPayload, error) {
	f = f.normalized()
	f.Campaign = ""
	ds := s.store.Current()
	key := s.cacheKey("analysis", ds.Version, f)

	began := time.Now()
	var cached AnalysisPayload
	if s.cacheGet(ctx, key, &cached) {
		s.metrics.RecordAnalysis("analysis", "hit", time.Since(began))
		return &cached, nil
	}

	filteredDaily := insights.FilterDaily(ds.Summary, ds.Daily, f.Category, f.Source)
	agg := insights.AggregateData(ds.Summary, ds.Daily, f.Category, f.Source, "")

	payload := &AnalysisPayload{
		Snapshot:       insights.BuildSnapshot(agg.Campaigns, agg.CohortData, agg.WeekLabels, filteredDaily),
		SummaryText:    insights.BuildSummaryText(filteredDaily, ds.DateRange, f.Category, f.Source),
		DateRange:      ds.DateRange,
		DatasetVersion: ds.Version,
	}

	s.cacheSet(ctx, key, payload)
	s.metrics.RecordAnalysis("analysis", "miss", time.Since(began))
	return payload, nil
}

func (s *Service) cacheKey(kind, version string, f Filters) string {
	return fmt.Sprintf("insights:%s:%s:%s|%s|%s", kind, version, f.Category, f.Source, f.Campaign)
}

func (s *Service) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil || !s.cfg.Enabled {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, payload any) {
	if s.cache == nil || !s.cfg.Enabled {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.TTL).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
