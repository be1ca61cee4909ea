package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-finance-api/internal/model"
)

func healthyCurrent() *model.CurrentStats {
	return &model.CurrentStats{
		TotalIncome:   dec(10000),
		TotalSpending: dec(4000),
		NetProfit:     dec(6000),
	}
}

func workersWithTop(name string, income int64) *WorkersStats {
	return &WorkersStats{
		TotalWorkers: 1,
		TopPerformer: WorkerAggregate{Name: name, TotalIncome: dec(income)},
	}
}

func TestGenerateInsights_NilInputs(t *testing.T) {
	overview := &OverviewStats{}
	assert.Nil(t, GenerateInsights(nil, healthyCurrent(), workersWithTop("ali", 1)))
	assert.Nil(t, GenerateInsights(overview, nil, workersWithTop("ali", 1)))
	assert.Nil(t, GenerateInsights(overview, healthyCurrent(), nil))
}

func TestGenerateInsights_ProfitRuleMutuallyExclusive(t *testing.T) {
	overview := &OverviewStats{TotalTransactions: 10}

	profitable := GenerateInsights(overview, healthyCurrent(), workersWithTop("N/A", 0))
	require.NotEmpty(t, profitable)
	assert.Equal(t, InsightPositive, profitable[0].Type)
	assert.Contains(t, profitable[0].Text, "profitable")

	losing := &model.CurrentStats{
		TotalIncome:   dec(1000),
		TotalSpending: dec(3000),
		NetProfit:     dec(-2000),
	}
	atLoss := GenerateInsights(overview, losing, workersWithTop("N/A", 0))
	require.NotEmpty(t, atLoss)
	assert.Equal(t, InsightNegative, atLoss[0].Type)
	assert.Contains(t, atLoss[0].Text, "loss of UZS 2,000")
}

func TestGenerateInsights_ApprovalBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		acceptanceRate float64
		wantExcellent  bool
		wantLow        bool
	}{
		{name: "above 90 fires excellent", acceptanceRate: 90.1, wantExcellent: true},
		{name: "exactly 90 fires nothing", acceptanceRate: 90.0},
		{name: "between thresholds fires nothing", acceptanceRate: 85.0},
		{name: "exactly 80 fires nothing", acceptanceRate: 80.0},
		{name: "below 80 fires low warning", acceptanceRate: 79.9, wantLow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overview := &OverviewStats{AcceptanceRate: tt.acceptanceRate}
			insights := GenerateInsights(overview, healthyCurrent(), workersWithTop("N/A", 0))

			var hasExcellent, hasLow bool
			for _, in := range insights {
				switch {
				case in.Icon == "✅":
					hasExcellent = true
				case in.Icon == "🔍":
					hasLow = true
				}
			}
			assert.Equal(t, tt.wantExcellent, hasExcellent)
			assert.Equal(t, tt.wantLow, hasLow)
		})
	}
}

func TestGenerateInsights_ScenarioNinetyPercent(t *testing.T) {
	// summary 90/5/5 из 100: acceptance ровно 90 - ни excellent, ни low
	summary := &model.SummaryStats{Accepted: 90, Pending: 5, Rejected: 5, Total: 100}
	overview := AggregateOverview(summary, nil, nil, nil)
	require.NotNil(t, overview)
	require.Equal(t, 90.0, overview.AcceptanceRate)

	insights := GenerateInsights(overview, healthyCurrent(), workersWithTop("N/A", 0))
	for _, in := range insights {
		assert.NotContains(t, in.Text, "approval rate")
	}
}

func TestGenerateInsights_CapAndOrder(t *testing.T) {
	// Все пять правил срабатывают - остаются первые четыре в порядке правил
	overview := &OverviewStats{
		TotalTransactions: 600,
		TotalPending:      25,
		AcceptanceRate:    95,
	}
	insights := GenerateInsights(overview, healthyCurrent(), workersWithTop("Ali Karimov", 9000))

	require.Len(t, insights, 4)
	assert.Contains(t, insights[0].Text, "profitable")
	assert.Contains(t, insights[1].Text, "transaction volume")
	assert.Contains(t, insights[2].Text, "approval rate")
	assert.Contains(t, insights[3].Text, "pending transactions")
}

func TestGenerateInsights_TopPerformer(t *testing.T) {
	overview := &OverviewStats{}
	insights := GenerateInsights(overview, healthyCurrent(), workersWithTop("Ali Karimov", 9000))

	var found bool
	for _, in := range insights {
		if in.Icon == "🏆" {
			found = true
			assert.Contains(t, in.Text, "Ali Karimov")
			assert.Contains(t, in.Text, "UZS 9,000")
		}
	}
	assert.True(t, found)
}

func TestGenerateRiskAlerts_PendingBoundary(t *testing.T) {
	current := healthyCurrent()

	// Ровно 30 - граница строгая, тревоги нет
	atBoundary := GenerateRiskAlerts(&OverviewStats{TotalPending: 30, TotalTransactions: 500}, current)
	for _, a := range atBoundary {
		assert.NotEqual(t, AlertHigh, a.Level)
	}

	above := GenerateRiskAlerts(&OverviewStats{TotalPending: 31, TotalTransactions: 500}, current)
	require.NotEmpty(t, above)
	assert.Equal(t, AlertHigh, above[0].Level)
	assert.Contains(t, above[0].Text, "31 transactions")
}

func TestGenerateRiskAlerts_SpendingRatio(t *testing.T) {
	overview := &OverviewStats{TotalTransactions: 500}

	over := &model.CurrentStats{TotalIncome: dec(1000), TotalSpending: dec(801)}
	alerts := GenerateRiskAlerts(overview, over)
	require.Len(t, alerts, 1)
	assert.Equal(t, "High Spending Ratio", alerts[0].Title)

	// Ровно 80% дохода - тревоги нет
	exact := &model.CurrentStats{TotalIncome: dec(1000), TotalSpending: dec(800)}
	assert.Empty(t, GenerateRiskAlerts(overview, exact))
}

func TestGenerateRiskAlerts_CapAtThree(t *testing.T) {
	// Срабатывают все четыре правила - остаются первые три
	overview := &OverviewStats{
		TotalPending:      50,
		RejectionRate:     25,
		TotalTransactions: 10,
	}
	current := &model.CurrentStats{TotalIncome: dec(1000), TotalSpending: dec(990)}

	alerts := GenerateRiskAlerts(overview, current)
	require.Len(t, alerts, 3)
	assert.Equal(t, AlertHigh, alerts[0].Level)
	assert.Equal(t, "Elevated Rejection Rate", alerts[1].Title)
	assert.Equal(t, "High Spending Ratio", alerts[2].Title)
}

func TestGenerateRiskAlerts_NilInputs(t *testing.T) {
	assert.Nil(t, GenerateRiskAlerts(nil, healthyCurrent()))
	assert.Nil(t, GenerateRiskAlerts(&OverviewStats{}, nil))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "UZS 1,234,567", formatCurrency(dec(1234567)))
	assert.Equal(t, "UZS 100", formatCurrency(dec(100)))
	assert.Equal(t, "UZS 1,000", formatCurrency(dec(1000)))
	assert.Equal(t, "-UZS 2,000", formatCurrency(dec(-2000)))
	assert.Equal(t, "UZS 0", formatCurrency(dec(0)))
}
