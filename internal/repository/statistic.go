package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
)

type StatisticRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewStatisticRepository(db *sql.DB, logger *logrus.Logger) *StatisticRepository {
	return &StatisticRepository{db: db, logger: logger}
}

func (r *StatisticRepository) Create(ctx context.Context, s *model.StatisticSnapshot) error {
	query := `
		INSERT INTO statistic_snapshots (snapshot_date, total_income, total_spending, net_profit, transaction_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		s.SnapshotDate,
		s.TotalIncome,
		s.TotalSpending,
		s.NetProfit,
		s.TransactionCount,
	).Scan(&s.ID)

	if err != nil {
		r.logger.WithField("snapshot_date", s.SnapshotDate.Format("2006-01-02")).
			WithError(err).Error("Ошибка создания снимка статистики")
		return fmt.Errorf("ошибка создания снимка: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"snapshot_date":     s.SnapshotDate.Format("2006-01-02"),
		"total_income":      s.TotalIncome,
		"total_spending":    s.TotalSpending,
		"transaction_count": s.TransactionCount,
	}).Info("Снимок статистики создан")
	return nil
}

// ExistsForDate проверяет, создан ли уже снимок на дату
func (r *StatisticRepository) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM statistic_snapshots WHERE snapshot_date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки снимка: %w", err)
	}
	return exists, nil
}

// FindBetween возвращает снимки за период [start, end] по возрастанию даты
func (r *StatisticRepository) FindBetween(ctx context.Context, start, end time.Time) ([]model.StatisticSnapshot, error) {
	query := `
		SELECT id, snapshot_date, total_income, total_spending, net_profit, transaction_count
		FROM statistic_snapshots
		WHERE snapshot_date >= $1 AND snapshot_date <= $2
		ORDER BY snapshot_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса снимков статистики")
		return nil, fmt.Errorf("ошибка получения снимков: %w", err)
	}
	defer rows.Close()

	var snapshots []model.StatisticSnapshot
	for rows.Next() {
		var s model.StatisticSnapshot
		if err := rows.Scan(&s.ID, &s.SnapshotDate, &s.TotalIncome, &s.TotalSpending, &s.NetProfit, &s.TransactionCount); err != nil {
			return nil, fmt.Errorf("ошибка чтения снимка: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}
	return snapshots, nil
}
