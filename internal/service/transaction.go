package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
	"company-finance-api/internal/repository"
)

type TransactionService struct {
	transactionRepo     *repository.TransactionRepository
	userRepo            *repository.UserRepository
	notificationService *NotificationService
	emailSender         *EmailSender
	logger              *logrus.Logger
}

func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	notificationService *NotificationService,
	emailSender *EmailSender,
	logger *logrus.Logger,
) *TransactionService {
	return &TransactionService{
		transactionRepo:     transactionRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		emailSender:         emailSender,
		logger:              logger,
	}
}

// Create Создание транзакции работником. Транзакция наследует менеджера
// работника и попадает в статус PENDING.
func (s *TransactionService) Create(ctx context.Context, workerUsername string, input model.TransactionRequest) (*model.Transaction, error) {
	worker, err := s.userRepo.FindByUsername(ctx, workerUsername)
	if err != nil {
		return nil, err
	}
	if worker.Role != model.UserRoleWorker {
		return nil, fmt.Errorf("only workers can create transactions")
	}

	tx := &model.Transaction{
		WorkerID:    worker.ID,
		WorkerName:  worker.FullName,
		ManagerID:   worker.ManagerID,
		ManagerName: worker.ManagerName,
		Type:        model.TransactionType(input.Type),
		Status:      model.TransactionStatusPending,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Product:     input.Product,
		Source:      input.Source,
		Description: input.Description,
		WeightKg:    input.WeightKg,
		CreatedAt:   time.Now(),
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	// Уведомляем закреплённого менеджера
	if worker.ManagerID != nil {
		s.notificationService.Notify(ctx, *worker.ManagerID, model.NotificationTypeNewTransaction, tx)

		if manager, err := s.userRepo.FindByID(ctx, *worker.ManagerID); err == nil && manager.Email != nil {
			if err := s.emailSender.SendNewTransactionNotification(*manager.Email, tx); err != nil {
				s.logger.WithError(err).Warn("Не удалось отправить email менеджеру")
			}
		}
	}

	return tx, nil
}

// Review Проверка транзакции менеджером: принять, отклонить или вернуть
// с комментарием. Результат записывается ровно один раз.
func (s *TransactionService) Review(ctx context.Context, managerUsername string, txID int64, input model.ReviewTransactionRequest) (*model.Transaction, error) {
	manager, err := s.userRepo.FindByUsername(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	if manager.Role != model.UserRoleManager && manager.Role != model.UserRoleDirector {
		return nil, fmt.Errorf("only managers can review transactions")
	}

	tx, err := s.transactionRepo.FindByID(ctx, txID)
	if err != nil {
		return nil, err
	}

	// Повторная проверка запрещена
	if tx.Status != model.TransactionStatusPending {
		return nil, fmt.Errorf("transaction already reviewed")
	}

	// Менеджер проверяет только транзакции своих работников
	if manager.Role == model.UserRoleManager && (tx.ManagerID == nil || *tx.ManagerID != manager.ID) {
		s.logger.WithFields(logrus.Fields{
			"transaction_id": txID,
			"manager_id":     manager.ID,
		}).Warn("Попытка проверить чужую транзакцию")
		return nil, fmt.Errorf("transaction is not assigned to this manager")
	}

	status := input.Action.Status()
	if input.Action == model.ReviewActionComment && input.Comment == "" {
		return nil, fmt.Errorf("comment is required for COMMENT action")
	}

	reviewedAt := time.Now()
	if err := s.transactionRepo.Review(ctx, txID, manager.ID, status, input.Comment, reviewedAt); err != nil {
		return nil, err
	}

	tx.Status = status
	tx.ManagerID = &manager.ID
	tx.ManagerName = &manager.FullName
	tx.ReviewedAt = &reviewedAt
	if input.Comment != "" {
		tx.ManagerComment = &input.Comment
	}

	// Уведомляем работника о результате
	nType := map[model.TransactionStatus]model.NotificationType{
		model.TransactionStatusAccepted:  model.NotificationTypeAccepted,
		model.TransactionStatusRejected:  model.NotificationTypeRejected,
		model.TransactionStatusCommented: model.NotificationTypeCommented,
	}[status]
	s.notificationService.Notify(ctx, tx.WorkerID, nType, tx)

	if worker, err := s.userRepo.FindByID(ctx, tx.WorkerID); err == nil && worker.Email != nil {
		if err := s.emailSender.SendReviewNotification(*worker.Email, tx); err != nil {
			s.logger.WithError(err).Warn("Не удалось отправить email работнику")
		}
	}

	return tx, nil
}

// WorkerHistory возвращает транзакции работника, при необходимости по статусу
func (s *TransactionService) WorkerHistory(ctx context.Context, workerUsername string, status *model.TransactionStatus) ([]model.Transaction, error) {
	worker, err := s.userRepo.FindByUsername(ctx, workerUsername)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.FindByWorker(ctx, worker.ID, status)
}

// ManagerQueue возвращает транзакции, закреплённые за менеджером
func (s *TransactionService) ManagerQueue(ctx context.Context, managerUsername string, status *model.TransactionStatus) ([]model.Transaction, error) {
	manager, err := s.userRepo.FindByUsername(ctx, managerUsername)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.FindByManager(ctx, manager.ID, status)
}

// ListFiltered возвращает страницу транзакций для директора
func (s *TransactionService) ListFiltered(
	ctx context.Context,
	page, size int,
	status *model.TransactionStatus,
	workerUsername string,
) (*model.PagedResponse, error) {
	txs, total, err := s.transactionRepo.FindFiltered(ctx, page, size, status, workerUsername)
	if err != nil {
		return nil, err
	}
	return model.NewPagedResponse(txs, page, size, total), nil
}

// ListByStatusPaginated возвращает страницу транзакций в указанном статусе
func (s *TransactionService) ListByStatusPaginated(
	ctx context.Context,
	status model.TransactionStatus,
	page, size int,
) (*model.PagedResponse, error) {
	txs, total, err := s.transactionRepo.FindByStatusPaginated(ctx, status, page, size)
	if err != nil {
		return nil, err
	}
	return model.NewPagedResponse(txs, page, size, total), nil
}

// AllByStatus возвращает все транзакции в указанном статусе по всей системе
func (s *TransactionService) AllByStatus(ctx context.Context, status model.TransactionStatus) ([]model.Transaction, error) {
	return s.transactionRepo.FindByStatus(ctx, status)
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	return s.transactionRepo.FindByID(ctx, id)
}

// Summary возвращает авторитетные счётчики по всей системе
func (s *TransactionService) Summary(ctx context.Context) (*model.SummaryStats, error) {
	return s.transactionRepo.SummaryCounts(ctx)
}
