package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-finance-api/internal/model"
)

type fakeTransactionSource struct {
	summary    *model.SummaryStats
	summaryErr error
	byStatus   map[model.TransactionStatus][]model.Transaction
	statusErr  error
	page       []model.Transaction
	total      int64
	pageErr    error
}

func (f *fakeTransactionSource) SummaryCounts(ctx context.Context) (*model.SummaryStats, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeTransactionSource) FindByStatus(ctx context.Context, status model.TransactionStatus) ([]model.Transaction, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.byStatus[status], nil
}

func (f *fakeTransactionSource) FindFiltered(ctx context.Context, page, size int, status *model.TransactionStatus, workerUsername string) ([]model.Transaction, int64, error) {
	if f.pageErr != nil {
		return nil, 0, f.pageErr
	}
	return f.page, f.total, nil
}

type fakeRosterSource struct {
	byRole map[model.UserRole][]model.User
	err    error
}

func (f *fakeRosterSource) FindByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byRole[role], nil
}

type fakeStatisticSource struct {
	current    *model.CurrentStats
	currentErr error
	history    []model.StatisticSnapshot
	historyErr error
	hourly     []model.HourlySample
	hourlyErr  error
}

func (f *fakeStatisticSource) CurrentStatistics(ctx context.Context) (*model.CurrentStats, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.current, nil
}

func (f *fakeStatisticSource) SnapshotHistory(ctx context.Context, now time.Time, days int) ([]model.StatisticSnapshot, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeStatisticSource) TodayHourly(ctx context.Context, now time.Time) ([]model.HourlySample, error) {
	if f.hourlyErr != nil {
		return nil, f.hourlyErr
	}
	return f.hourly, nil
}

func healthySources() (*fakeTransactionSource, *fakeRosterSource, *fakeStatisticSource) {
	txs := &fakeTransactionSource{
		summary: &model.SummaryStats{Accepted: 90, Pending: 5, Rejected: 5, Total: 100},
		byStatus: map[model.TransactionStatus][]model.Transaction{
			model.TransactionStatusPending: {{ID: 1, WorkerID: 1}},
		},
		page:  []model.Transaction{{ID: 2, WorkerID: 1, Status: model.TransactionStatusAccepted, Type: model.TransactionTypeIncome, Amount: decimal.NewFromInt(5000)}},
		total: 100,
	}
	roster := &fakeRosterSource{byRole: map[model.UserRole][]model.User{
		model.UserRoleWorker:  {{ID: 1, Username: "ali", FullName: "Ali Karimov", Role: model.UserRoleWorker}},
		model.UserRoleManager: {{ID: 2, Username: "bek", FullName: "Bek Toshev", Role: model.UserRoleManager}},
	}}
	stats := &fakeStatisticSource{
		current: &model.CurrentStats{
			TotalIncome:      decimal.NewFromInt(10000),
			TotalSpending:    decimal.NewFromInt(4000),
			NetProfit:        decimal.NewFromInt(6000),
			TransactionCount: 90,
		},
	}
	return txs, roster, stats
}

func newTestDashboardService(txs *fakeTransactionSource, roster *fakeRosterSource, stats *fakeStatisticSource) *DashboardService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewDashboardService(txs, roster, stats, nil, logger)
}

func TestDashboardBuild_AllSourcesHealthy(t *testing.T) {
	s := newTestDashboardService(healthySources())

	d, err := s.Build(context.Background(), DashboardQuery{Page: 0, Size: 20})
	require.NoError(t, err)

	require.NotNil(t, d.Overview)
	assert.Equal(t, int64(100), d.Overview.TotalTransactions)
	require.NotNil(t, d.Workers)
	assert.Equal(t, "Ali Karimov", d.Workers.TopPerformer.Name)
	require.NotNil(t, d.Managers)
	require.NotNil(t, d.Financial)
	assert.NotEmpty(t, d.Insights)
	require.NotNil(t, d.Transactions)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, d.PageWindow)
}

func TestDashboardBuild_SummaryFailureDegradesToApproximation(t *testing.T) {
	txs, roster, stats := healthySources()
	txs.summaryErr = errors.New("db down")
	s := newTestDashboardService(txs, roster, stats)

	d, err := s.Build(context.Background(), DashboardQuery{Page: 0, Size: 20})
	require.NoError(t, err)

	// Без авторитетной сводки обзор строится приближением из текущей статистики
	require.NotNil(t, d.Overview)
	assert.Equal(t, "approximated", string(d.Overview.Source))
	require.NotNil(t, d.Workers)
	require.NotNil(t, d.Financial)
}

func TestDashboardBuild_StatisticsFailureKeepsOtherSections(t *testing.T) {
	txs, roster, stats := healthySources()
	stats.currentErr = errors.New("rates feed down")
	stats.historyErr = errors.New("rates feed down")
	stats.hourlyErr = errors.New("rates feed down")
	s := newTestDashboardService(txs, roster, stats)

	d, err := s.Build(context.Background(), DashboardQuery{Page: 0, Size: 20})
	require.NoError(t, err)

	// Разделы, зависящие только от статистики, остаются пустыми
	assert.Nil(t, d.Financial)
	assert.Nil(t, d.Insights)
	assert.Empty(t, d.HourlyChart)

	// Остальное живёт на авторитетной сводке и списках
	require.NotNil(t, d.Overview)
	assert.Equal(t, "authoritative", string(d.Overview.Source))
	require.NotNil(t, d.Workers)
	require.NotNil(t, d.Managers)
	require.NotNil(t, d.Transactions)
}

func TestDashboardBuild_RosterFailureLeavesWorkersNil(t *testing.T) {
	txs, roster, stats := healthySources()
	roster.err = errors.New("db down")
	s := newTestDashboardService(txs, roster, stats)

	d, err := s.Build(context.Background(), DashboardQuery{Page: 0, Size: 20})
	require.NoError(t, err)

	assert.Nil(t, d.Workers)
	assert.Nil(t, d.Managers)
	require.NotNil(t, d.Overview)
	require.NotNil(t, d.Financial)
}

func TestDashboardBuild_NothingLoadedYieldsNilSections(t *testing.T) {
	txs := &fakeTransactionSource{
		summaryErr: errors.New("db down"),
		statusErr:  errors.New("db down"),
		pageErr:    errors.New("db down"),
	}
	roster := &fakeRosterSource{err: errors.New("db down")}
	stats := &fakeStatisticSource{
		currentErr: errors.New("db down"),
		historyErr: errors.New("db down"),
		hourlyErr:  errors.New("db down"),
	}
	s := newTestDashboardService(txs, roster, stats)

	d, err := s.Build(context.Background(), DashboardQuery{Page: 0, Size: 20})
	require.NoError(t, err)

	// Ничего не загрузилось - все разделы nil, а не нулевые показатели
	assert.Nil(t, d.Overview)
	assert.Nil(t, d.Financial)
	assert.Nil(t, d.Workers)
	assert.Nil(t, d.Managers)
	assert.Nil(t, d.Insights)
	assert.Nil(t, d.RiskAlerts)
	require.NotNil(t, d.Transactions)
	assert.Empty(t, d.Transactions.Content)
}
