package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"company-finance-api/internal/analytics"
	"company-finance-api/internal/model"
	"company-finance-api/internal/pagination"
)

// historyDays - глубина истории снимков для месячных графиков
const historyDays = 185

// DirectorDashboard - полный срез аналитики для панели директора.
// Разделы с nil означают "данные не загрузились", а не нулевые показатели.
type DirectorDashboard struct {
	Overview   *analytics.OverviewStats  `json:"overview"`
	Financial  *analytics.FinancialStats `json:"financial"`
	Workers    *analytics.WorkersStats   `json:"workers"`
	Managers   *analytics.ManagersStats  `json:"managers"`
	Insights   []analytics.Insight       `json:"insights"`
	RiskAlerts []analytics.RiskAlert     `json:"riskAlerts"`

	MonthlyChart []analytics.MonthlyBucket `json:"monthlyChart"`
	DailyChart   []analytics.ChartPoint    `json:"dailyChart"`
	HourlyChart  []analytics.ChartPoint    `json:"hourlyChart"`

	Transactions *model.PagedResponse `json:"transactions"`
	PageWindow   []int                `json:"pageWindow"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// DashboardQuery - параметры страницы транзакций внутри панели
type DashboardQuery struct {
	Page           int
	Size           int
	Status         *model.TransactionStatus
	WorkerUsername string
}

// TransactionSource - срез репозитория транзакций, нужный панели
type TransactionSource interface {
	SummaryCounts(ctx context.Context) (*model.SummaryStats, error)
	FindByStatus(ctx context.Context, status model.TransactionStatus) ([]model.Transaction, error)
	FindFiltered(ctx context.Context, page, size int, status *model.TransactionStatus, workerUsername string) ([]model.Transaction, int64, error)
}

// RosterSource - списки пользователей по ролям
type RosterSource interface {
	FindByRole(ctx context.Context, role model.UserRole) ([]model.User, error)
}

// StatisticSource - статистические срезы для панели
type StatisticSource interface {
	CurrentStatistics(ctx context.Context) (*model.CurrentStats, error)
	SnapshotHistory(ctx context.Context, now time.Time, days int) ([]model.StatisticSnapshot, error)
	TodayHourly(ctx context.Context, now time.Time) ([]model.HourlySample, error)
}

type DashboardService struct {
	transactionRepo TransactionSource
	userRepo        RosterSource
	statistics      StatisticSource
	rnd             analytics.RandSource
	logger          *logrus.Logger
}

func NewDashboardService(
	transactionRepo TransactionSource,
	userRepo RosterSource,
	statistics StatisticSource,
	rnd analytics.RandSource,
	logger *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		statistics:      statistics,
		rnd:             rnd,
		logger:          logger,
	}
}

// Build собирает панель директора. Источники опрашиваются параллельно;
// отказ любого из них не валит панель целиком: соответствующий раздел
// остаётся nil, остальные считаются по тому, что загрузилось.
func (s *DashboardService) Build(ctx context.Context, q DashboardQuery) (*DirectorDashboard, error) {
	now := time.Now()

	var (
		summary  *model.SummaryStats
		current  *model.CurrentStats
		workers  []model.User
		managers []model.User
		pending  []model.Transaction
		rejected []model.Transaction
		history  []model.StatisticSnapshot
		hourly   []model.HourlySample
		pageTxs  []model.Transaction
		total    int64
	)

	var wg sync.WaitGroup
	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.WithField("section", name).WithError(err).
					Warn("Раздел панели не загрузился")
			}
		}()
	}

	fetch("summary", func() (err error) {
		summary, err = s.transactionRepo.SummaryCounts(ctx)
		return
	})
	fetch("current", func() (err error) {
		current, err = s.statistics.CurrentStatistics(ctx)
		return
	})
	fetch("workers", func() (err error) {
		workers, err = s.userRepo.FindByRole(ctx, model.UserRoleWorker)
		return
	})
	fetch("managers", func() (err error) {
		managers, err = s.userRepo.FindByRole(ctx, model.UserRoleManager)
		return
	})
	fetch("pending", func() (err error) {
		pending, err = s.transactionRepo.FindByStatus(ctx, model.TransactionStatusPending)
		return
	})
	fetch("rejected", func() (err error) {
		rejected, err = s.transactionRepo.FindByStatus(ctx, model.TransactionStatusRejected)
		return
	})
	fetch("history", func() (err error) {
		history, err = s.statistics.SnapshotHistory(ctx, now, historyDays)
		return
	})
	fetch("hourly", func() (err error) {
		hourly, err = s.statistics.TodayHourly(ctx, now)
		return
	})
	fetch("transactions", func() (err error) {
		pageTxs, total, err = s.transactionRepo.FindFiltered(ctx, q.Page, q.Size, q.Status, q.WorkerUsername)
		return
	})
	wg.Wait()

	overview := analytics.AggregateOverview(summary, current, pending, rejected)
	workersStats := analytics.AggregateWorkers(workers, pageTxs, summary, current, s.rnd)

	paged := model.NewPagedResponse(pageTxs, q.Page, q.Size, total)

	dashboard := &DirectorDashboard{
		Overview:     overview,
		Financial:    analytics.AggregateFinancial(history, current, now),
		Workers:      workersStats,
		Managers:     analytics.AggregateManagers(managers, summary, pageTxs, rejected),
		Insights:     analytics.GenerateInsights(overview, current, workersStats),
		RiskAlerts:   analytics.GenerateRiskAlerts(overview, current),
		MonthlyChart: analytics.BucketByMonth(history),
		DailyChart:   analytics.MapDaily(analytics.FilterLastNDays(history, 30, now)),
		HourlyChart:  analytics.MapHourly(hourly),
		Transactions: paged,
		PageWindow:   pagination.Window(q.Page, paged.TotalPages),
		GeneratedAt:  now,
	}

	return dashboard, nil
}
