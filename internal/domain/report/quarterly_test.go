package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsalud/registro-clinico/internal/domain/record"
)

func row(identifier, date string) record.Row {
	return record.Row{Identifier: identifier, AttentionDate: date}
}

func TestAggregator_Aggregate(t *testing.T) {
	agg := NewAggregator(nil)

	t.Run("both date formats count together", func(t *testing.T) {
		summary := agg.Aggregate([]record.Row{
			row("111", "2024-01-15"),
			row("111", "15/01/2024"),
		})

		require.Len(t, summary.Lines, 1)
		assert.Equal(t, Line{Identifier: "111", Year: 2024, Quarter: 1, Count: 2}, summary.Lines[0])
		assert.Equal(t, 2, summary.TotalRows)
		assert.Zero(t, summary.SkippedRows)
	})

	t.Run("groups by identifier year and quarter", func(t *testing.T) {
		summary := agg.Aggregate([]record.Row{
			row("222", "2024-05-10"),
			row("111", "2023-12-01"),
			row("111", "2024-02-20"),
			row("111", "2024-03-05"),
			row("222", "2024-11-30"),
		})

		assert.Equal(t, []Line{
			{Identifier: "111", Year: 2023, Quarter: 4, Count: 1},
			{Identifier: "111", Year: 2024, Quarter: 1, Count: 2},
			{Identifier: "222", Year: 2024, Quarter: 2, Count: 1},
			{Identifier: "222", Year: 2024, Quarter: 4, Count: 1},
		}, summary.Lines)
	})

	t.Run("invalid dates are dropped silently", func(t *testing.T) {
		summary := agg.Aggregate([]record.Row{
			row("111", "not-a-date"),
			row("111", "2024-01-15"),
			row("222", "31/02/2024"),
		})

		require.Len(t, summary.Lines, 1)
		assert.Equal(t, 3, summary.TotalRows)
		assert.Equal(t, 2, summary.SkippedRows)
	})

	t.Run("rows without identifier or date are not candidates", func(t *testing.T) {
		summary := agg.Aggregate([]record.Row{
			row("", "2024-01-15"),
			row("111", ""),
		})

		assert.Zero(t, summary.TotalRows)
		assert.NotNil(t, summary.Lines)
		assert.Empty(t, summary.Lines)
	})

	t.Run("no rows at all vs no valid dates", func(t *testing.T) {
		empty := agg.Aggregate(nil)
		assert.Zero(t, empty.TotalRows)
		assert.NotNil(t, empty.Lines)

		invalid := agg.Aggregate([]record.Row{row("111", "garbage")})
		assert.Equal(t, 1, invalid.TotalRows)
		assert.Equal(t, 1, invalid.SkippedRows)
		assert.Empty(t, invalid.Lines)
	})
}

func TestQuarter(t *testing.T) {
	cases := []struct {
		month time.Month
		want  int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}
	for _, tc := range cases {
		d := time.Date(2024, tc.month, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, tc.want, Quarter(d), "month %s", tc.month)
	}
}
