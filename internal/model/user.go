package model

import (
	"fmt"
	"time"
)

type UserRole string

const (
	UserRoleWorker   UserRole = "WORKER"   // создаёт транзакции
	UserRoleManager  UserRole = "MANAGER"  // проверяет транзакции своих работников
	UserRoleDirector UserRole = "DIRECTOR" // видит аналитику по всей компании
)

func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case UserRoleWorker, UserRoleManager, UserRoleDirector:
		return UserRole(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

type User struct {
	ID          int64     `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Password    string    `json:"-" db:"password"`
	FullName    string    `json:"fullName" db:"full_name"`
	Email       *string   `json:"email,omitempty" db:"email"`
	Role        UserRole  `json:"role" db:"role"`
	Active      bool      `json:"active" db:"active"`
	ManagerID   *int64    `json:"managerId,omitempty" db:"manager_id"`
	ManagerName *string   `json:"managerName,omitempty" db:"manager_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

type LoginResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	FullName string   `json:"fullName"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=64"`
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"`
	Role     string `json:"role" validate:"required,oneof=WORKER MANAGER DIRECTOR"`
}

func (r *CreateUserRequest) Validate() error {
	if len(r.Username) < 3 || len(r.Username) > 50 {
		return fmt.Errorf("username must be between 3 and 50 characters")
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if r.FullName == "" {
		return fmt.Errorf("fullName is required")
	}
	if _, err := ParseUserRole(r.Role); err != nil {
		return err
	}
	return nil
}

type UpdateUserRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password"` // пустая строка - пароль не меняется
	Email    string `json:"email"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.FullName == "" {
		return fmt.Errorf("fullName is required")
	}
	if r.Password != "" && len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

type AssignManagerRequest struct {
	ManagerID *int64 `json:"managerId"`
}
