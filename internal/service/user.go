package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"company-finance-api/internal/model"
	"company-finance-api/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo *repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// CreateUser Создание нового пользователя директором
func (s *UserService) CreateUser(ctx context.Context, input model.CreateUserRequest) (*model.User, error) {
	s.logger.WithFields(logrus.Fields{
		"username": input.Username,
		"role":     input.Role,
	}).Info("Создание нового пользователя")

	role, err := model.ParseUserRole(input.Role)
	if err != nil {
		return nil, err
	}

	// Хеширование пароля
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось захешировать пароль")
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	now := time.Now()
	user := &model.User{
		Username:  input.Username,
		Password:  string(hashedPassword),
		FullName:  input.FullName,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.WithError(err).Error("Не удалось создать пользователя в базе данных")
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

// ListByRole возвращает активных пользователей с указанной ролью
func (s *UserService) ListByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	return s.userRepo.FindByRole(ctx, role)
}

// UpdateUser Обновление имени, email и при необходимости пароля
func (s *UserService) UpdateUser(ctx context.Context, id int64, input model.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	if input.Email != "" {
		user.Email = &input.Email
	}

	// Пустой пароль - оставляем прежний
	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.WithError(err).Error("Не удалось захешировать пароль")
			return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
		}
		user.Password = string(hashedPassword)
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", id).Info("Пользователь обновлён")
	return user, nil
}

// DeactivateUser Мягкое удаление пользователя
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	return s.userRepo.Deactivate(ctx, id)
}

// AssignManager Назначение менеджера работнику. nil - снять назначение.
func (s *UserService) AssignManager(ctx context.Context, workerID int64, managerID *int64) error {
	worker, err := s.userRepo.FindByID(ctx, workerID)
	if err != nil {
		return err
	}
	if worker.Role != model.UserRoleWorker {
		return fmt.Errorf("manager can be assigned to workers only")
	}

	if managerID != nil {
		manager, err := s.userRepo.FindByID(ctx, *managerID)
		if err != nil {
			return err
		}
		if manager.Role != model.UserRoleManager {
			return fmt.Errorf("assigned user is not a manager")
		}
		if !manager.Active {
			return fmt.Errorf("assigned manager is not active")
		}
	}

	if err := s.userRepo.UpdateManager(ctx, workerID, managerID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"worker_id":  workerID,
		"manager_id": managerID,
	}).Info("Менеджер назначен работнику")
	return nil
}
