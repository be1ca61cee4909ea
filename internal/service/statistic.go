package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
	"company-finance-api/internal/repository"
)

type StatisticService struct {
	statisticRepo   *repository.StatisticRepository
	transactionRepo *repository.TransactionRepository
	rates           *RatesClient
	logger          *logrus.Logger
}

func NewStatisticService(
	statisticRepo *repository.StatisticRepository,
	transactionRepo *repository.TransactionRepository,
	rates *RatesClient,
	logger *logrus.Logger,
) *StatisticService {
	return &StatisticService{
		statisticRepo:   statisticRepo,
		transactionRepo: transactionRepo,
		rates:           rates,
		logger:          logger,
	}
}

// CurrentStatistics считает текущие итоги по всем принятым транзакциям.
// Суммы в чужих валютах пересчитываются в базовую по курсу ЦБ.
func (s *StatisticService) CurrentStatistics(ctx context.Context) (*model.CurrentStats, error) {
	totals, err := s.transactionRepo.AcceptedTotalsByCurrency(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.CurrentStats{
		AsOfDate: time.Now().Format("2006-01-02"),
	}
	for _, t := range totals {
		converted := s.rates.Convert(t.Total, t.Currency)
		switch t.Type {
		case model.TransactionTypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(converted)
		case model.TransactionTypeSpending:
			stats.TotalSpending = stats.TotalSpending.Add(converted)
		}
		stats.TransactionCount += t.Count
	}
	stats.NetProfit = stats.TotalIncome.Sub(stats.TotalSpending)

	return stats, nil
}

// StatisticHistory возвращает дневные снимки за период. Если снимков нет,
// история восстанавливается напрямую из принятых транзакций.
func (s *StatisticService) StatisticHistory(ctx context.Context, start, end time.Time) ([]model.StatisticResponse, error) {
	snapshots, err := s.statisticRepo.FindBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if len(snapshots) == 0 {
		s.logger.Debug("Снимки статистики отсутствуют, восстановление из транзакций")
		return s.historyFromTransactions(ctx, start, end)
	}

	history := make([]model.StatisticResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		history = append(history, model.StatisticResponse{
			TotalIncome:      snap.TotalIncome,
			TotalSpending:    snap.TotalSpending,
			NetProfit:        snap.NetProfit,
			TransactionCount: snap.TransactionCount,
			AsOfDate:         snap.SnapshotDate.Format("2006-01-02"),
		})
	}
	return history, nil
}

// historyFromTransactions собирает дневные итоги из принятых транзакций за период
func (s *StatisticService) historyFromTransactions(ctx context.Context, start, end time.Time) ([]model.StatisticResponse, error) {
	txs, err := s.transactionRepo.FindAcceptedBetween(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	type daily struct {
		income   decimal.Decimal
		spending decimal.Decimal
		count    int64
	}

	byDay := make(map[string]*daily)
	var order []string
	for _, tx := range txs {
		day := tx.CreatedAt.Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &daily{}
			byDay[day] = d
			order = append(order, day)
		}

		converted := s.rates.Convert(tx.Amount, tx.Currency)
		if tx.Type == model.TransactionTypeIncome {
			d.income = d.income.Add(converted)
		} else {
			d.spending = d.spending.Add(converted)
		}
		d.count++
	}

	history := make([]model.StatisticResponse, 0, len(order))
	for _, day := range order {
		d := byDay[day]
		history = append(history, model.StatisticResponse{
			TotalIncome:      d.income,
			TotalSpending:    d.spending,
			NetProfit:        d.income.Sub(d.spending),
			TransactionCount: d.count,
			AsOfDate:         day,
		})
	}
	return history, nil
}

// TodayHourly возвращает почасовые итоги текущих суток. Часы без операций
// заполняются нулями от полуночи до последнего активного или текущего часа.
func (s *StatisticService) TodayHourly(ctx context.Context, now time.Time) ([]model.HourlySample, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	txs, err := s.transactionRepo.FindAcceptedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	type hourly struct {
		income   decimal.Decimal
		spending decimal.Decimal
	}
	byHour := make(map[int]*hourly)
	lastActive := 0
	for _, tx := range txs {
		hour := tx.CreatedAt.In(now.Location()).Hour()
		h, ok := byHour[hour]
		if !ok {
			h = &hourly{}
			byHour[hour] = h
		}

		converted := s.rates.Convert(tx.Amount, tx.Currency)
		if tx.Type == model.TransactionTypeIncome {
			h.income = h.income.Add(converted)
		} else {
			h.spending = h.spending.Add(converted)
		}
		if hour > lastActive {
			lastActive = hour
		}
	}

	lastHour := now.Hour()
	if lastActive > lastHour {
		lastHour = lastActive
	}

	samples := make([]model.HourlySample, 0, lastHour+1)
	for hour := 0; hour <= lastHour; hour++ {
		sample := model.HourlySample{Hour: fmt.Sprintf("%02d:00", hour)}
		if h, ok := byHour[hour]; ok {
			sample.Income = h.income
			sample.Spending = h.spending
		}
		sample.NetProfit = sample.Income.Sub(sample.Spending)
		samples = append(samples, sample)
	}
	return samples, nil
}

// SnapshotHistory возвращает сырые снимки за последние n дней для аналитики
func (s *StatisticService) SnapshotHistory(ctx context.Context, now time.Time, days int) ([]model.StatisticSnapshot, error) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -days)
	return s.statisticRepo.FindBetween(ctx, start, end)
}

// CreateDailySnapshot создаёт снимок итогов за date. Снимок содержит итоги
// только этого дня. Повторный вызов на ту же дату - no-op.
func (s *StatisticService) CreateDailySnapshot(ctx context.Context, date time.Time) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	exists, err := s.statisticRepo.ExistsForDate(ctx, day)
	if err != nil {
		return err
	}
	if exists {
		s.logger.WithField("snapshot_date", day.Format("2006-01-02")).
			Debug("Снимок на дату уже существует, пропуск")
		return nil
	}

	txs, err := s.transactionRepo.FindAcceptedBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	snapshot := &model.StatisticSnapshot{SnapshotDate: day}
	for _, tx := range txs {
		converted := s.rates.Convert(tx.Amount, tx.Currency)
		if tx.Type == model.TransactionTypeIncome {
			snapshot.TotalIncome = snapshot.TotalIncome.Add(converted)
		} else {
			snapshot.TotalSpending = snapshot.TotalSpending.Add(converted)
		}
		snapshot.TransactionCount++
	}
	snapshot.NetProfit = snapshot.TotalIncome.Sub(snapshot.TotalSpending)

	if err := s.statisticRepo.Create(ctx, snapshot); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"snapshot_date":     day.Format("2006-01-02"),
		"transaction_count": snapshot.TransactionCount,
	}).Info("Дневной снимок статистики создан")
	return nil
}
