package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/radiusdt/vector-insights/internal/insights"
	"github.com/radiusdt/vector-insights/internal/models"
)

// ReadRecords decodes a header-keyed CSV stream into one map per row.
// Rows shorter than the header are padded with empty strings, longer
// rows have the excess dropped. Fully empty rows are skipped.
func ReadRecords(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []map[string]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}
		record := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseSummary reads a campaign summary export and returns the scored,
// ranked campaign list.
func ParseSummary(r io.Reader) ([]models.ProcessedCampaign, int, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, 0, err
	}
	summary := make([]models.SummaryRecord, 0, len(records))
	for i, record := range records {
		summary = append(summary, insights.NormalizeSummaryRecord(record, i+1))
	}
	return insights.ProcessSummary(summary), len(records), nil
}

// ParseDaily reads a daily cohort export and returns the normalized rows
// together with the dataset's date range rendered as "first to last".
func ParseDaily(r io.Reader) ([]models.DayRow, string, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, "", err
	}
	rows := make([]models.DayRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, insights.NormalizeDayRow(record))
	}
	return rows, DateRange(rows), nil
}

// DateRange renders the span of dated rows as "first to last", or an
// empty string when no row carries a date.
func DateRange(rows []models.DayRow) string {
	var dates []string
	for _, row := range rows {
		if row.HasDate {
			dates = append(dates, row.Date.Format("2006-01-02"))
		}
	}
	if len(dates) == 0 {
		return ""
	}
	sort.Strings(dates)
	return dates[0] + " to " + dates[len(dates)-1]
}
