// Package report aggregates committed attendance records into quarterly
// counts per patient. It is a read-only consumer of the sheet.
package report

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/clinsalud/registro-clinico/internal/domain/record"
)

// Line is one aggregated output record: attendance count for a patient in a
// calendar quarter.
type Line struct {
	Identifier string `json:"identifier"`
	Year       int    `json:"year"`
	Quarter    int    `json:"quarter"`
	Count      int    `json:"count"`
}

// Summary is the aggregation result. Lines is always non-nil, so a caller
// can tell "no candidate rows" (TotalRows == 0) apart from "candidates but
// no valid dates" (TotalRows > 0, SkippedRows == TotalRows).
type Summary struct {
	Lines       []Line `json:"lines"`
	TotalRows   int    `json:"total_rows"`
	SkippedRows int    `json:"skipped_rows"`
}

// Aggregator groups attendance by (identifier, year, quarter).
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a quarterly aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

type groupKey struct {
	identifier string
	year       int
	quarter    int
}

// Aggregate counts attendance per (identifier, year, quarter) over the rows
// that carry both an identifier and an attention date. Rows whose date fails
// both accepted formats are dropped: attendance without a valid date does
// not count. Output is ordered by identifier, then year, then quarter.
func (a *Aggregator) Aggregate(rows []record.Row) Summary {
	summary := Summary{Lines: []Line{}}
	counts := make(map[groupKey]int)

	for _, row := range rows {
		if row.Identifier == "" || row.AttentionDate == "" {
			continue
		}
		summary.TotalRows++

		date, ok := parseAttentionDate(row.AttentionDate)
		if !ok {
			summary.SkippedRows++
			continue
		}

		counts[groupKey{
			identifier: row.Identifier,
			year:       date.Year(),
			quarter:    Quarter(date),
		}]++
	}

	for key, count := range counts {
		summary.Lines = append(summary.Lines, Line{
			Identifier: key.identifier,
			Year:       key.year,
			Quarter:    key.quarter,
			Count:      count,
		})
	}

	sort.Slice(summary.Lines, func(i, j int) bool {
		a, b := summary.Lines[i], summary.Lines[j]
		if a.Identifier != b.Identifier {
			return a.Identifier < b.Identifier
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Quarter < b.Quarter
	})

	if summary.SkippedRows > 0 {
		a.logger.Debug("dropped attendance rows with invalid dates",
			slog.Int("skipped", summary.SkippedRows),
			slog.Int("total", summary.TotalRows),
		)
	}
	return summary
}

// Quarter maps a date to its calendar quarter, 1 through 4.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// parseAttentionDate accepts ISO "2006-01-02" when the string contains a
// dash, otherwise "02/01/2006". Anything else fails.
func parseAttentionDate(s string) (time.Time, bool) {
	var t time.Time
	var err error
	if strings.Contains(s, "-") {
		t, err = time.Parse("2006-01-02", s)
	} else {
		t, err = time.Parse("02/01/2006", s)
	}
	return t, err == nil
}
