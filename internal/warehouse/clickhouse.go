package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/radiusdt/vector-insights/internal/models"
)

// Client reads attribution exports from the ClickHouse warehouse.  The
// summary table is aggregated per campaign over the requested window;
// the daily table is long-format, one row per (date, campaign, cohort
// day offset), and gets pivoted back into day-indexed revenue cells.
type Client struct {
	conn   driver.Conn
	cfg    config.WarehouseConfig
	logger *zap.Logger
}

func NewClient(conn driver.Conn, cfg config.WarehouseConfig, logger *zap.Logger) *Client {
	return &Client{conn: conn, cfg: cfg, logger: logger}
}

// Ping verifies the warehouse is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()
	return c.conn.Ping(ctx)
}

// FetchSummary pulls per-campaign totals for the date window.
func (c *Client) FetchSummary(ctx context.Context, start, end time.Time) ([]models.SummaryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT
			campaign_name,
			media_source,
			sum(cost)          AS cost,
			sum(revenue)       AS revenue,
			sum(gross_profit)  AS gross_profit,
			sum(installs)      AS installs,
			sum(card_adds)     AS card_adds,
			sum(subscriptions) AS subscriptions
		FROM %s
		WHERE date BETWEEN ? AND ?
		GROUP BY campaign_name, media_source
		ORDER BY cost DESC
	`, c.cfg.SummaryTable)

	rows, err := c.conn.Query(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}
	defer rows.Close()

	var records []models.SummaryRecord
	for rows.Next() {
		var rec models.SummaryRecord
		if err := rows.Scan(
			&rec.CampaignName, &rec.MediaSource,
			&rec.Cost, &rec.Revenue, &rec.Profit,
			&rec.Installs, &rec.Cards, &rec.Subs,
		); err != nil {
			return nil, fmt.Errorf("summary scan failed: %w", err)
		}
		rec.Position = len(records) + 1
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}

	c.logger.Debug("fetched warehouse summary",
		zap.Int("rows", len(records)),
		zap.String("table", c.cfg.SummaryTable),
	)
	return records, nil
}

// FetchDaily pulls daily cohort rows for the date window.  Long-format
// cohort cells sharing a (date, campaign) key are folded into a single
// DayRow.
func (c *Client) FetchDaily(ctx context.Context, start, end time.Time) ([]models.DayRow, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT
			date,
			campaign_name,
			media_source,
			cost,
			revenue,
			installs,
			card_adds,
			subscriptions,
			day_offset,
			transfer_gmv,
			purchase_gmv
		FROM %s
		WHERE date BETWEEN ? AND ?
		ORDER BY date, campaign_name, day_offset
	`, c.cfg.DailyTable)

	rows, err := c.conn.Query(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("daily query failed: %w", err)
	}
	defer rows.Close()

	type rowKey struct {
		date     time.Time
		campaign string
	}
	index := make(map[rowKey]int)
	var out []models.DayRow

	for rows.Next() {
		var (
			date        time.Time
			campaign    string
			mediaSource string
			cost        float64
			revenue     float64
			installs    float64
			cards       float64
			subs        float64
			dayOffset   int32
			transferGMV float64
			purchaseGMV float64
		)
		if err := rows.Scan(
			&date, &campaign, &mediaSource,
			&cost, &revenue, &installs, &cards, &subs,
			&dayOffset, &transferGMV, &purchaseGMV,
		); err != nil {
			return nil, fmt.Errorf("daily scan failed: %w", err)
		}

		key := rowKey{date: date, campaign: campaign}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.DayRow{
				Date:         date,
				HasDate:      true,
				CampaignName: campaign,
				MediaSource:  mediaSource,
				Cost:         cost,
				Revenue:      revenue,
				Installs:     installs,
				Cards:        cards,
				Subs:         subs,
				RevenueCells: make(map[int]models.RevenueCell),
			})
		}
		out[i].RevenueCells[int(dayOffset)] = models.RevenueCell{
			Transfer: transferGMV,
			Purchase: purchaseGMV,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily query failed: %w", err)
	}

	c.logger.Debug("fetched warehouse daily rows",
		zap.Int("rows", len(out)),
		zap.String("table", c.cfg.DailyTable),
	)
	return out, nil
}
