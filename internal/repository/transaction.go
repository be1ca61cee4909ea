package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
)

type TransactionRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewTransactionRepository(db *sql.DB, logger *logrus.Logger) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger}
}

const transactionSelect = `
	SELECT t.id, t.worker_id, w.full_name, t.manager_id, m.full_name,
	       t.type, t.status, t.amount, t.currency, t.product, t.source,
	       COALESCE(t.description, ''), t.weight_kg, t.manager_comment,
	       t.created_at, t.reviewed_at
	FROM transactions t
	JOIN users w ON t.worker_id = w.id
	LEFT JOIN users m ON t.manager_id = m.id
`

func (r *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	r.logger.WithFields(logrus.Fields{
		"worker_id": tx.WorkerID,
		"type":      tx.Type,
		"amount":    tx.Amount,
		"currency":  tx.Currency,
		"product":   tx.Product,
	}).Info("Создание новой транзакции")

	query := `
		INSERT INTO transactions
			(worker_id, manager_id, type, status, amount, currency, product, source, description, weight_kg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		tx.WorkerID,
		tx.ManagerID,
		tx.Type,
		tx.Status,
		tx.Amount,
		tx.Currency,
		tx.Product,
		tx.Source,
		tx.Description,
		tx.WeightKg,
		tx.CreatedAt,
	).Scan(&tx.ID)

	if err != nil {
		r.logger.WithError(err).Error("Ошибка при создании транзакции")
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.logger.WithField("transaction_id", tx.ID).Info("Транзакция успешно создана")
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*model.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionSelect+" WHERE t.id = $1", id)

	tx, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found")
	}
	if err != nil {
		r.logger.WithField("transaction_id", id).WithError(err).Error("Ошибка чтения транзакции")
		return nil, fmt.Errorf("ошибка чтения транзакции: %w", err)
	}
	return tx, nil
}

// Review записывает результат проверки: статус, менеджера, комментарий и
// время проверки, ровно один раз для ожидающей транзакции.
// Условие status = 'PENDING' в самом UPDATE: из двух одновременных проверок
// строку изменит только одна, вторая получит ноль затронутых строк.
func (r *TransactionRepository) Review(
	ctx context.Context,
	id int64,
	managerID int64,
	status model.TransactionStatus,
	comment string,
	reviewedAt time.Time,
) error {
	query := `
		UPDATE transactions
		SET status = $1, manager_id = $2, manager_comment = NULLIF($3, ''), reviewed_at = $4
		WHERE id = $5 AND status = 'PENDING'
	`

	result, err := r.db.ExecContext(ctx, query, status, managerID, comment, reviewedAt, id)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"transaction_id": id,
			"manager_id":     managerID,
			"status":         status,
		}).WithError(err).Error("Ошибка записи результата проверки")
		return fmt.Errorf("ошибка проверки транзакции: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("transaction not found or already reviewed")
	}

	r.logger.WithFields(logrus.Fields{
		"transaction_id": id,
		"status":         status,
	}).Info("Результат проверки записан")
	return nil
}

// FindByWorker возвращает транзакции работника, свежие первыми.
// nil вместо статуса - без фильтра.
func (r *TransactionRepository) FindByWorker(
	ctx context.Context,
	workerID int64,
	status *model.TransactionStatus,
) ([]model.Transaction, error) {
	query := transactionSelect + " WHERE t.worker_id = $1"
	args := []interface{}{workerID}
	if status != nil {
		query += " AND t.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY t.created_at DESC"

	return r.queryTransactions(ctx, query, args...)
}

// FindByManager возвращает транзакции, закреплённые за менеджером
func (r *TransactionRepository) FindByManager(
	ctx context.Context,
	managerID int64,
	status *model.TransactionStatus,
) ([]model.Transaction, error) {
	query := transactionSelect + " WHERE t.manager_id = $1"
	args := []interface{}{managerID}
	if status != nil {
		query += " AND t.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY t.created_at DESC"

	return r.queryTransactions(ctx, query, args...)
}

// FindByStatus возвращает все транзакции в статусе по всей системе
func (r *TransactionRepository) FindByStatus(
	ctx context.Context,
	status model.TransactionStatus,
) ([]model.Transaction, error) {
	return r.queryTransactions(ctx,
		transactionSelect+" WHERE t.status = $1 ORDER BY t.created_at DESC", status)
}

// FindByStatusPaginated возвращает страницу транзакций в статусе и общее число
func (r *TransactionRepository) FindByStatusPaginated(
	ctx context.Context,
	status model.TransactionStatus,
	page, size int,
) ([]model.Transaction, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта транзакций: %w", err)
	}

	txs, err := r.queryTransactions(ctx,
		transactionSelect+" WHERE t.status = $1 ORDER BY t.created_at DESC LIMIT $2 OFFSET $3",
		status, size, page*size)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// FindFiltered возвращает страницу транзакций для директора с необязательными
// фильтрами по статусу и по имени работника
func (r *TransactionRepository) FindFiltered(
	ctx context.Context,
	page, size int,
	status *model.TransactionStatus,
	workerUsername string,
) ([]model.Transaction, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if status != nil {
		args = append(args, *status)
		where += fmt.Sprintf(" AND t.status = $%d", len(args))
	}
	if workerUsername != "" {
		args = append(args, workerUsername)
		where += fmt.Sprintf(" AND w.username = $%d", len(args))
	}

	countQuery := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN users w ON t.worker_id = w.id
	` + where

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.WithError(err).Error("Ошибка подсчёта отфильтрованных транзакций")
		return nil, 0, fmt.Errorf("ошибка подсчёта транзакций: %w", err)
	}

	args = append(args, size, page*size)
	query := transactionSelect + where +
		fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	txs, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// SummaryCounts возвращает авторитетные счётчики по всей системе одним запросом
func (r *TransactionRepository) SummaryCounts(ctx context.Context) (*model.SummaryStats, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status = 'ACCEPTED'),
		       COUNT(*) FILTER (WHERE status = 'PENDING'),
		       COUNT(*) FILTER (WHERE status = 'REJECTED'),
		       COUNT(*)
		FROM transactions
	`

	var summary model.SummaryStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&summary.Accepted,
		&summary.Pending,
		&summary.Rejected,
		&summary.Total,
	)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка подсчёта сводных счётчиков")
		return nil, fmt.Errorf("ошибка подсчёта сводных счётчиков: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"accepted": summary.Accepted,
		"pending":  summary.Pending,
		"rejected": summary.Rejected,
		"total":    summary.Total,
	}).Debug("Сводные счётчики получены")
	return &summary, nil
}

// CurrencyTotal - итог по принятым транзакциям одной валюты и типа
type CurrencyTotal struct {
	Currency string
	Type     model.TransactionType
	Total    decimal.Decimal
	Count    int64
}

// AcceptedTotalsByCurrency возвращает суммы принятых транзакций, сгруппированные
// по валюте и типу. Пересчёт в базовую валюту делает сервис статистики.
func (r *TransactionRepository) AcceptedTotalsByCurrency(ctx context.Context) ([]CurrencyTotal, error) {
	query := `
		SELECT currency, type, COALESCE(SUM(amount), 0), COUNT(*)
		FROM transactions
		WHERE status = 'ACCEPTED'
		GROUP BY currency, type
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса итогов по валютам")
		return nil, fmt.Errorf("ошибка получения итогов по валютам: %w", err)
	}
	defer rows.Close()

	var totals []CurrencyTotal
	for rows.Next() {
		var t CurrencyTotal
		if err := rows.Scan(&t.Currency, &t.Type, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("ошибка чтения итога по валюте: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}
	return totals, nil
}

// FindAcceptedBetween возвращает принятые транзакции за период [start, end),
// по возрастанию времени создания
func (r *TransactionRepository) FindAcceptedBetween(
	ctx context.Context,
	start, end time.Time,
) ([]model.Transaction, error) {
	r.logger.WithFields(logrus.Fields{
		"start": start.Format(time.RFC3339),
		"end":   end.Format(time.RFC3339),
	}).Debug("Запрос принятых транзакций за период")

	return r.queryTransactions(ctx,
		transactionSelect+` WHERE t.status = 'ACCEPTED' AND t.created_at >= $1 AND t.created_at < $2
		ORDER BY t.created_at ASC`,
		start, end)
}

func (r *TransactionRepository) queryTransactions(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса транзакций")
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			r.logger.WithError(err).Error("Ошибка чтения строки транзакции")
			return nil, fmt.Errorf("ошибка чтения транзакции: %w", err)
		}
		txs = append(txs, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}
	return txs, nil
}

func scanTransaction(scan func(dest ...interface{}) error) (*model.Transaction, error) {
	var tx model.Transaction
	err := scan(
		&tx.ID,
		&tx.WorkerID,
		&tx.WorkerName,
		&tx.ManagerID,
		&tx.ManagerName,
		&tx.Type,
		&tx.Status,
		&tx.Amount,
		&tx.Currency,
		&tx.Product,
		&tx.Source,
		&tx.Description,
		&tx.WeightKg,
		&tx.ManagerComment,
		&tx.CreatedAt,
		&tx.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
