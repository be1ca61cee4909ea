package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-finance-api/internal/model"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func tx(workerID int64, txType model.TransactionType, status model.TransactionStatus, amount int64) model.Transaction {
	return model.Transaction{
		WorkerID: workerID,
		Type:     txType,
		Status:   status,
		Amount:   dec(amount),
	}
}

func TestAggregateOverview_Authoritative(t *testing.T) {
	summary := &model.SummaryStats{Accepted: 90, Pending: 5, Rejected: 5, Total: 100}

	stats := AggregateOverview(summary, nil, nil, nil)
	require.NotNil(t, stats)

	assert.Equal(t, SourceAuthoritative, stats.Source)
	assert.Equal(t, int64(90), stats.TotalAccepted)
	assert.Equal(t, int64(100), stats.TotalTransactions)
	assert.Equal(t, 90.0, stats.AcceptanceRate)
	assert.Equal(t, 5.0, stats.RejectionRate)
}

func TestAggregateOverview_TotalFallsBackToSum(t *testing.T) {
	// Поле total не заполнено - суммируем три статуса
	summary := &model.SummaryStats{Accepted: 7, Pending: 2, Rejected: 1}

	stats := AggregateOverview(summary, nil, nil, nil)
	require.NotNil(t, stats)
	assert.Equal(t, int64(10), stats.TotalTransactions)
}

func TestAggregateOverview_MismatchedTotalPreferred(t *testing.T) {
	// Явный total расходится с суммой статусов - верим явному
	summary := &model.SummaryStats{Accepted: 10, Pending: 10, Rejected: 10, Total: 40}

	stats := AggregateOverview(summary, nil, nil, nil)
	require.NotNil(t, stats)
	assert.Equal(t, int64(40), stats.TotalTransactions)
	assert.Equal(t, 25.0, stats.AcceptanceRate)
}

func TestAggregateOverview_ApproximatedFallback(t *testing.T) {
	current := &model.CurrentStats{TransactionCount: 50}
	pending := make([]model.Transaction, 3)
	rejected := make([]model.Transaction, 2)

	stats := AggregateOverview(nil, current, pending, rejected)
	require.NotNil(t, stats)

	assert.Equal(t, SourceApproximated, stats.Source)
	assert.Equal(t, int64(50), stats.TotalAccepted)
	assert.Equal(t, int64(3), stats.TotalPending)
	assert.Equal(t, int64(2), stats.TotalRejected)
	assert.Equal(t, int64(55), stats.TotalTransactions)
}

func TestAggregateOverview_NotLoaded(t *testing.T) {
	// Ни сводки, ни текущей статистики: это "ещё загружается", а не нули
	assert.Nil(t, AggregateOverview(nil, nil, []model.Transaction{}, []model.Transaction{}))
}

func TestAggregateOverview_ZeroTotalNoDivision(t *testing.T) {
	stats := AggregateOverview(&model.SummaryStats{}, nil, nil, nil)
	require.NotNil(t, stats)
	assert.Equal(t, 0.0, stats.AcceptanceRate)
	assert.Equal(t, 0.0, stats.RejectionRate)
}

func TestAggregateOverview_RatesSumProperty(t *testing.T) {
	// Для согласованной сводки acceptance + rejection + pending/total*100
	// дают примерно 100 с точностью округления
	cases := []model.SummaryStats{
		{Accepted: 90, Pending: 5, Rejected: 5, Total: 100},
		{Accepted: 1, Pending: 1, Rejected: 1, Total: 3},
		{Accepted: 997, Pending: 2, Rejected: 1, Total: 1000},
	}

	for _, summary := range cases {
		s := summary
		stats := AggregateOverview(&s, nil, nil, nil)
		require.NotNil(t, stats)

		pendingRate := float64(s.Pending) / float64(s.Total) * 100
		sum := stats.AcceptanceRate + stats.RejectionRate + pendingRate
		assert.InDelta(t, 100, sum, 0.2, "summary=%+v", s)
	}
}

func TestAggregateWorkers_FoldsPage(t *testing.T) {
	workers := []model.User{
		{ID: 1, Username: "ali", FullName: "Ali Karimov"},
		{ID: 2, Username: "vali", FullName: "Vali Toshev"},
		{ID: 3, Username: "guli", FullName: "Guli Nazarova"},
	}
	page := []model.Transaction{
		tx(1, model.TransactionTypeIncome, model.TransactionStatusAccepted, 1000),
		tx(1, model.TransactionTypeSpending, model.TransactionStatusAccepted, 400),
		tx(2, model.TransactionTypeIncome, model.TransactionStatusAccepted, 2500),
		tx(2, model.TransactionTypeIncome, model.TransactionStatusPending, 9999),
		tx(7, model.TransactionTypeIncome, model.TransactionStatusAccepted, 5000), // не из списка
	}

	stats := AggregateWorkers(workers, page, nil, nil, nil)
	require.NotNil(t, stats)

	require.Len(t, stats.PerWorker, 3)
	assert.Equal(t, "Ali Karimov", stats.PerWorker[0].Name)
	assert.True(t, stats.PerWorker[0].TotalIncome.Equal(dec(1000)), "расход не входит в доход")
	assert.Equal(t, 2, stats.PerWorker[0].TotalTransactions)
	assert.Equal(t, 2, stats.PerWorker[0].AcceptedTransactions)

	// Ожидающая транзакция не добавляет дохода
	assert.True(t, stats.PerWorker[1].TotalIncome.Equal(dec(2500)))
	assert.Equal(t, 2, stats.PerWorker[1].TotalTransactions)
	assert.Equal(t, 1, stats.PerWorker[1].AcceptedTransactions)

	// Работник без транзакций на странице присутствует с нулями
	assert.True(t, stats.PerWorker[2].TotalIncome.IsZero())
	assert.Equal(t, 0, stats.PerWorker[2].TotalTransactions)

	assert.Equal(t, "Vali Toshev", stats.TopPerformer.Name)
	assert.False(t, stats.Estimated)
}

func TestAggregateWorkers_NotLoaded(t *testing.T) {
	assert.Nil(t, AggregateWorkers(nil, nil, nil, nil, nil))
}

func TestTopPerformer_TieBrokenByOrder(t *testing.T) {
	aggs := []WorkerAggregate{
		{WorkerID: 1, Name: "first", TotalIncome: dec(100)},
		{WorkerID: 2, Name: "second", TotalIncome: dec(100)},
	}
	assert.Equal(t, "first", TopPerformer(aggs).Name)
	assert.Equal(t, "N/A", TopPerformer(nil).Name)
}

func TestAggregateWorkers_EstimateDisabledWithoutRand(t *testing.T) {
	workers := []model.User{{ID: 1, Username: "ali"}, {ID: 2, Username: "vali"}}
	current := &model.CurrentStats{TotalIncome: dec(10000), TransactionCount: 40}

	stats := AggregateWorkers(workers, nil, nil, current, nil)
	require.NotNil(t, stats)

	// Без источника случайности доходы остаются нулями, оценки нет
	assert.False(t, stats.Estimated)
	assert.True(t, stats.TopPerformer.TotalIncome.IsZero())
}

func TestAggregateWorkers_EstimateRedistributesIncome(t *testing.T) {
	workers := []model.User{{ID: 1, Username: "ali"}, {ID: 2, Username: "vali"}}
	current := &model.CurrentStats{TotalIncome: dec(10000), TransactionCount: 40}

	// Детерминированный источник: всегда 0.5 - множитель ровно 1.0
	stats := AggregateWorkers(workers, nil, nil, current, func() float64 { return 0.5 })
	require.NotNil(t, stats)

	assert.True(t, stats.Estimated)
	for _, w := range stats.PerWorker {
		assert.True(t, w.TotalIncome.Equal(dec(5000)), "worker=%s income=%s", w.Name, w.TotalIncome)
	}
}

func TestAggregateWorkers_ApprovalRatePrefersSummary(t *testing.T) {
	workers := []model.User{{ID: 1, Username: "ali"}}
	summary := &model.SummaryStats{Accepted: 80, Pending: 10, Rejected: 10, Total: 100}
	page := []model.Transaction{
		tx(1, model.TransactionTypeIncome, model.TransactionStatusRejected, 10),
	}

	stats := AggregateWorkers(workers, page, summary, nil, nil)
	require.NotNil(t, stats)
	assert.Equal(t, 80.0, stats.ApprovalRate)
	assert.Equal(t, 100.0, stats.AvgTransactionsPerWorker)
}

func TestAggregateWorkers_ApprovalRateFallsBackToPage(t *testing.T) {
	workers := []model.User{{ID: 1, Username: "ali"}}
	page := []model.Transaction{
		tx(1, model.TransactionTypeIncome, model.TransactionStatusAccepted, 10),
		tx(1, model.TransactionTypeIncome, model.TransactionStatusAccepted, 10),
		tx(1, model.TransactionTypeIncome, model.TransactionStatusRejected, 10),
		tx(1, model.TransactionTypeIncome, model.TransactionStatusPending, 10),
	}

	stats := AggregateWorkers(workers, page, nil, nil, nil)
	require.NotNil(t, stats)
	assert.Equal(t, 50.0, stats.ApprovalRate)
}

func TestAggregateManagers(t *testing.T) {
	managers := []model.User{{ID: 1}, {ID: 2}}
	summary := &model.SummaryStats{Accepted: 60, Pending: 10, Rejected: 20, Total: 90}

	stats := AggregateManagers(managers, summary, nil, nil)
	require.NotNil(t, stats)

	assert.Equal(t, int64(60), stats.TotalApprovals)
	assert.Equal(t, int64(20), stats.TotalRejections)
	assert.Equal(t, int64(80), stats.TotalReviews)
	assert.Equal(t, 75.0, stats.ApprovalRate)
	assert.Equal(t, 40.0, stats.AvgReviewed)
}

func TestAggregateManagers_FallbackAndGuards(t *testing.T) {
	assert.Nil(t, AggregateManagers(nil, nil, nil, nil))

	managers := []model.User{{ID: 1}}
	page := []model.Transaction{
		tx(1, model.TransactionTypeIncome, model.TransactionStatusAccepted, 10),
		tx(2, model.TransactionTypeIncome, model.TransactionStatusPending, 10),
	}
	rejected := make([]model.Transaction, 3)

	stats := AggregateManagers(managers, nil, page, rejected)
	require.NotNil(t, stats)
	assert.Equal(t, int64(1), stats.TotalApprovals)
	assert.Equal(t, int64(3), stats.TotalRejections)
	assert.Equal(t, 25.0, stats.ApprovalRate)

	// Ни одной проверки - доля одобрения 0, без деления на ноль
	empty := AggregateManagers(managers, &model.SummaryStats{}, nil, nil)
	require.NotNil(t, empty)
	assert.Equal(t, 0.0, empty.ApprovalRate)
}
