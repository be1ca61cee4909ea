package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
)

type NotificationRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewNotificationRepository(db *sql.DB, logger *logrus.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, transaction_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		n.UserID,
		n.Type,
		n.TransactionID,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	).Scan(&n.ID)

	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"user_id":        n.UserID,
			"type":           n.Type,
			"transaction_id": n.TransactionID,
		}).WithError(err).Error("Ошибка создания уведомления")
		return fmt.Errorf("ошибка создания уведомления: %w", err)
	}

	return nil
}

// FindByUser возвращает уведомления пользователя, свежие первыми
func (r *NotificationRepository) FindByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, type, transaction_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.WithField("user_id", userID).WithError(err).Error("Ошибка запроса уведомлений")
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.TransactionID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}
	return notifications, nil
}

// CountUnread возвращает число непрочитанных уведомлений пользователя.
// Запрос дешёвый: его дергает периодический опрос клиента.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		r.logger.WithField("user_id", userID).WithError(err).Error("Ошибка подсчёта непрочитанных")
		return 0, fmt.Errorf("ошибка подсчёта непрочитанных: %w", err)
	}
	return count, nil
}

// MarkRead помечает уведомление прочитанным, только для его владельца
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.WithField("notification_id", id).WithError(err).Error("Ошибка отметки уведомления")
		return fmt.Errorf("ошибка отметки уведомления: %w", err)
	}
	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		r.logger.WithField("user_id", userID).WithError(err).Error("Ошибка отметки всех уведомлений")
		return fmt.Errorf("ошибка отметки всех уведомлений: %w", err)
	}
	return nil
}
