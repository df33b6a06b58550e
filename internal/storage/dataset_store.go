package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/radiusdt/vector-insights/internal/models"
)

// Dataset is the currently loaded pair of attribution exports.  Version
// changes on every mutation and doubles as the cache key for derived
// payloads downstream.  Slices held by a Dataset must be treated as
// immutable by callers.
type Dataset struct {
	Version   string
	Summary   []models.ProcessedCampaign
	Daily     []models.DayRow
	DateRange string
	UpdatedAt time.Time
}

// DatasetStore keeps the active dataset in memory.  Uploads replace one
// half of the dataset at a time; a warehouse sync replaces both.
type DatasetStore struct {
	mu      sync.RWMutex
	current Dataset
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		current: Dataset{Version: uuid.NewString()},
	}
}

// Current returns a snapshot of the active dataset.
func (s *DatasetStore) Current() Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetSummary replaces the scored campaign list, keeping the daily half.
func (s *DatasetStore) SetSummary(campaigns []models.ProcessedCampaign) Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Summary = campaigns
	s.bump()
	return s.current
}

// SetDaily replaces the daily cohort rows and their date range, keeping
// the summary half.
func (s *DatasetStore) SetDaily(rows []models.DayRow, dateRange string) Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Daily = rows
	s.current.DateRange = dateRange
	s.bump()
	return s.current
}

// Replace swaps in a complete dataset, used by warehouse sync.
func (s *DatasetStore) Replace(campaigns []models.ProcessedCampaign, rows []models.DayRow, dateRange string) Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Summary = campaigns
	s.current.Daily = rows
	s.current.DateRange = dateRange
	s.bump()
	return s.current
}

func (s *DatasetStore) bump() {
	s.current.Version = uuid.NewString()
	s.current.UpdatedAt = time.Now().UTC()
}
