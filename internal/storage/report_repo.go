package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/radiusdt/vector-insights/internal/models"
)

// ReportRepo persists saved analysis reports.  Implementations must be
// safe for concurrent use.  Get returns nil without error when the
// report does not exist.
type ReportRepo interface {
	SaveReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context) ([]*models.Report, error)
	DeleteReport(ctx context.Context, id string) (bool, error)
}

// InMemoryReportRepo stores reports in a map keyed by report ID.  It is
// the fallback when PostgreSQL is not configured, and the store used in
// tests.
type InMemoryReportRepo struct {
	mu      sync.RWMutex
	reports map[string]*models.Report
}

func NewInMemoryReportRepo() *InMemoryReportRepo {
	return &InMemoryReportRepo{
		reports: make(map[string]*models.Report),
	}
}

func (r *InMemoryReportRepo) SaveReport(_ context.Context, rep *models.Report) error {
	if rep == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rep
	r.reports[rep.ID] = &cp
	return nil
}

func (r *InMemoryReportRepo) GetReport(_ context.Context, id string) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rep, ok := r.reports[id]; ok {
		cp := *rep
		return &cp, nil
	}
	return nil, nil
}

// ListReports returns all reports, newest first.
func (r *InMemoryReportRepo) ListReports(_ context.Context) ([]*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		cp := *rep
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (r *InMemoryReportRepo) DeleteReport(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return false, nil
	}
	delete(r.reports, id)
	return true, nil
}
