package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/radiusdt/vector-insights/internal/models"
)

// PostgresReportRepo implements ReportRepo using PostgreSQL.  The
// analysis snapshot is stored as a JSONB column; everything queried on
// lives in its own column.
type PostgresReportRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresReportRepo(pool *pgxpool.Pool) *PostgresReportRepo {
	return &PostgresReportRepo{pool: pool}
}

// Migrate creates the saved_reports table if it does not exist.
func (r *PostgresReportRepo) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS saved_reports (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			category     TEXT NOT NULL,
			source       TEXT NOT NULL,
			date_range   TEXT NOT NULL,
			snapshot     JSONB NOT NULL,
			summary_text TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate saved_reports: %w", err)
	}
	return nil
}

func (r *PostgresReportRepo) SaveReport(ctx context.Context, rep *models.Report) error {
	if rep == nil {
		return nil
	}
	snapshot, err := json.Marshal(rep.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO saved_reports (id, name, category, source, date_range, snapshot, summary_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			source = EXCLUDED.source,
			date_range = EXCLUDED.date_range,
			snapshot = EXCLUDED.snapshot,
			summary_text = EXCLUDED.summary_text
	`, rep.ID, rep.Name, rep.Category, rep.Source, rep.DateRange, snapshot, rep.SummaryText, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (r *PostgresReportRepo) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var (
		rep      models.Report
		snapshot []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, category, source, date_range, snapshot, summary_text, created_at
		FROM saved_reports WHERE id = $1
	`, id).Scan(&rep.ID, &rep.Name, &rep.Category, &rep.Source, &rep.DateRange, &snapshot, &rep.SummaryText, &rep.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if err := json.Unmarshal(snapshot, &rep.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &rep, nil
}

func (r *PostgresReportRepo) ListReports(ctx context.Context) ([]*models.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, source, date_range, snapshot, summary_text, created_at
		FROM saved_reports ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var (
			rep      models.Report
			snapshot []byte
		)
		if err := rows.Scan(&rep.ID, &rep.Name, &rep.Category, &rep.Source, &rep.DateRange, &snapshot, &rep.SummaryText, &rep.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(snapshot, &rep.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}

func (r *PostgresReportRepo) DeleteReport(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_reports WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
