package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
	"company-finance-api/internal/repository"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *logrus.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *logrus.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// Notify создаёт уведомление пользователю о событии по транзакции.
// Ошибка логируется, но не прерывает основную операцию.
func (s *NotificationService) Notify(ctx context.Context, userID int64, nType model.NotificationType, tx *model.Transaction) {
	n := &model.Notification{
		UserID:        userID,
		Type:          nType,
		TransactionID: tx.ID,
		Message:       notificationMessage(nType, tx),
		IsRead:        false,
		CreatedAt:     time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": tx.ID,
			"type":           nType,
		}).WithError(err).Error("Не удалось создать уведомление")
	}
}

func notificationMessage(nType model.NotificationType, tx *model.Transaction) string {
	switch nType {
	case model.NotificationTypeNewTransaction:
		return fmt.Sprintf("Новая транзакция #%d от %s на сумму %s %s",
			tx.ID, tx.WorkerName, tx.Amount.String(), tx.Currency)
	case model.NotificationTypeAccepted:
		return fmt.Sprintf("Ваша транзакция #%d подтверждена", tx.ID)
	case model.NotificationTypeRejected:
		return fmt.Sprintf("Ваша транзакция #%d отклонена", tx.ID)
	default:
		return fmt.Sprintf("Ваша транзакция #%d возвращена с комментарием", tx.ID)
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.notificationRepo.FindByUser(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
