package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
)

type UserRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewUserRepository(db *sql.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

const userSelect = `
	SELECT u.id, u.username, u.password, u.full_name, u.email, u.role, u.active,
	       u.manager_id, m.full_name, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN users m ON u.manager_id = m.id
`

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, password, full_name, email, role, active, manager_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Password,
		user.FullName,
		user.Email,
		user.Role,
		user.Active,
		user.ManagerID,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("username already exists")
		}
		r.logger.WithError(err).Error("Ошибка при создании пользователя")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("Пользователь создан")
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+" WHERE u.id = $1", id)
	return r.scanUser(row)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+" WHERE u.username = $1", username)
	return r.scanUser(row)
}

// FindAll возвращает всех пользователей, включая деактивированных
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+" ORDER BY u.id")
	if err != nil {
		r.logger.WithError(err).Error("Ошибка запроса списка пользователей")
		return nil, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// FindByRole возвращает активных пользователей с указанной ролью
func (r *UserRepository) FindByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+" WHERE u.role = $1 AND u.active ORDER BY u.id", role)
	if err != nil {
		r.logger.WithField("role", role).WithError(err).Error("Ошибка запроса пользователей по роли")
		return nil, fmt.Errorf("ошибка получения пользователей по роли: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET full_name = $1, password = $2, email = $3, updated_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, user.FullName, user.Password, user.Email, user.UpdatedAt, user.ID)
	if err != nil {
		r.logger.WithField("user_id", user.ID).WithError(err).Error("Ошибка обновления пользователя")
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	return nil
}

// Deactivate помечает пользователя неактивным вместо физического удаления
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.logger.WithField("user_id", id).WithError(err).Error("Ошибка деактивации пользователя")
		return fmt.Errorf("ошибка деактивации пользователя: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("user not found")
	}

	r.logger.WithField("user_id", id).Info("Пользователь деактивирован")
	return nil
}

// UpdateManager назначает или снимает (nil) менеджера пользователя
func (r *UserRepository) UpdateManager(ctx context.Context, userID int64, managerID *int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET manager_id = $1, updated_at = NOW() WHERE id = $2`, managerID, userID)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"manager_id": managerID,
		}).WithError(err).Error("Ошибка назначения менеджера")
		return fmt.Errorf("ошибка назначения менеджера: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.Active,
		&user.ManagerID,
		&user.ManagerName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		r.logger.WithError(err).Error("Ошибка чтения пользователя")
		return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) scanUsers(rows *sql.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Password,
			&user.FullName,
			&user.Email,
			&user.Role,
			&user.Active,
			&user.ManagerID,
			&user.ManagerName,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			r.logger.WithError(err).Error("Ошибка чтения строки пользователя")
			return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}
	return users, nil
}
