package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-finance-api/internal/model"
)

func snapshot(date string, income, spending int64) model.StatisticSnapshot {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.StatisticSnapshot{
		SnapshotDate:  d,
		TotalIncome:   dec(income),
		TotalSpending: dec(spending),
		NetProfit:     dec(income - spending),
	}
}

func TestAggregateFinancial_EmptyHistoryUsesCurrent(t *testing.T) {
	current := &model.CurrentStats{
		TotalIncome:   dec(1000),
		TotalSpending: dec(400),
		NetProfit:     dec(600),
	}

	stats := AggregateFinancial(nil, current, time.Now())
	require.NotNil(t, stats)

	assert.True(t, stats.MonthlyIncome.Equal(dec(1000)))
	assert.True(t, stats.MonthlySpending.Equal(dec(400)))
	assert.True(t, stats.MonthlyProfit.Equal(dec(600)))
	assert.Equal(t, 0.0, stats.MonthlyGrowth)
}

func TestAggregateFinancial_NothingLoaded(t *testing.T) {
	assert.Nil(t, AggregateFinancial(nil, nil, time.Now()))
}

func TestAggregateFinancial_LatestSnapshotOfMonthWins(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	history := []model.StatisticSnapshot{
		snapshot("2026-08-05", 500, 100),
		snapshot("2026-08-15", 900, 300), // самый свежий в августе
		snapshot("2026-07-28", 600, 200), // база - самый свежий в июле
		snapshot("2026-07-03", 100, 50),
	}

	stats := AggregateFinancial(history, nil, now)
	require.NotNil(t, stats)

	assert.True(t, stats.MonthlyIncome.Equal(dec(900)))
	assert.True(t, stats.MonthlySpending.Equal(dec(300)))
	// (900-600)/600 * 100 = 50.0
	assert.Equal(t, 50.0, stats.MonthlyGrowth)
}

func TestAggregateFinancial_NoSnapshotInCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)
	history := []model.StatisticSnapshot{
		snapshot("2026-07-28", 600, 200),
	}
	current := &model.CurrentStats{TotalIncome: dec(1200), TotalSpending: dec(300), NetProfit: dec(900)}

	stats := AggregateFinancial(history, current, now)
	require.NotNil(t, stats)

	assert.True(t, stats.MonthlyIncome.Equal(dec(1200)))
	assert.Equal(t, 100.0, stats.MonthlyGrowth)
}

func TestMonthlyGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		baseline int64
		want     float64
	}{
		{name: "growth", current: 150, baseline: 100, want: 50.0},
		{name: "decline", current: 50, baseline: 100, want: -50.0},
		{name: "flat", current: 100, baseline: 100, want: 0.0},
		{name: "zero baseline positive current", current: 10, baseline: 0, want: 100.0},
		{name: "zero baseline zero current", current: 0, baseline: 0, want: 0.0},
		{name: "rounded to one decimal", current: 1001, baseline: 3000, want: -66.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthlyGrowth(dec(tt.current), dec(tt.baseline)))
		})
	}
}

func TestAggregateFinancial_YearBoundary(t *testing.T) {
	// Январь: базой служит декабрь прошлого года
	now := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	history := []model.StatisticSnapshot{
		snapshot("2026-01-08", 220, 20),
		snapshot("2025-12-30", 200, 50),
	}

	stats := AggregateFinancial(history, nil, now)
	require.NotNil(t, stats)
	assert.Equal(t, 10.0, stats.MonthlyGrowth)
}
