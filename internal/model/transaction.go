package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"   // доход от продажи
	TransactionTypeSpending TransactionType = "SPENDING" // расход на закупку
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"   // ожидает проверки менеджером
	TransactionStatusAccepted  TransactionStatus = "ACCEPTED"  // подтверждена менеджером
	TransactionStatusRejected  TransactionStatus = "REJECTED"  // отклонена менеджером
	TransactionStatusCommented TransactionStatus = "COMMENTED" // возвращена с комментарием
)

// Transaction - финансовая операция, созданная работником и проверяемая менеджером.
// Статус, комментарий и reviewedAt выставляются ровно один раз при проверке.
type Transaction struct {
	ID             int64             `json:"id" db:"id"`
	WorkerID       int64             `json:"workerId" db:"worker_id"`
	WorkerName     string            `json:"workerName" db:"worker_name"`
	ManagerID      *int64            `json:"managerId,omitempty" db:"manager_id"`
	ManagerName    *string           `json:"managerName,omitempty" db:"manager_name"`
	Type           TransactionType   `json:"type" db:"type"`
	Status         TransactionStatus `json:"status" db:"status"`
	Amount         decimal.Decimal   `json:"amount" db:"amount"`
	Currency       string            `json:"currency" db:"currency"`
	Product        string            `json:"product" db:"product"`
	Source         string            `json:"source" db:"source"`
	Description    string            `json:"description" db:"description"`
	WeightKg       decimal.Decimal   `json:"weightKg" db:"weight_kg"`
	ManagerComment *string           `json:"managerComment,omitempty" db:"manager_comment"`
	CreatedAt      time.Time         `json:"createdAt" db:"created_at"`
	ReviewedAt     *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
}

type TransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=INCOME SPENDING"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency    string          `json:"currency" validate:"required"`
	Product     string          `json:"product" validate:"required"`
	Source      string          `json:"source" validate:"required"`
	Description string          `json:"description"`
	WeightKg    decimal.Decimal `json:"weightKg"`
}

func (r *TransactionRequest) Validate() error {
	// Проверка типа операции
	if r.Type != string(TransactionTypeIncome) && r.Type != string(TransactionTypeSpending) {
		return fmt.Errorf("type must be INCOME or SPENDING")
	}

	// Сумма строго положительная
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be greater than zero")
	}

	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if r.Product == "" {
		return fmt.Errorf("product is required")
	}
	if r.Source == "" {
		return fmt.Errorf("source is required")
	}

	// Вес не может быть отрицательным
	if r.WeightKg.IsNegative() {
		return fmt.Errorf("weightKg must not be negative")
	}

	return nil
}

type ReviewAction string

const (
	ReviewActionAccept  ReviewAction = "ACCEPT"
	ReviewActionReject  ReviewAction = "REJECT"
	ReviewActionComment ReviewAction = "COMMENT"
)

type ReviewTransactionRequest struct {
	Action  ReviewAction `json:"action" validate:"required,oneof=ACCEPT REJECT COMMENT"`
	Comment string       `json:"comment"`
}

func (r *ReviewTransactionRequest) Validate() error {
	switch r.Action {
	case ReviewActionAccept, ReviewActionReject, ReviewActionComment:
		return nil
	default:
		return fmt.Errorf("action must be ACCEPT, REJECT or COMMENT")
	}
}

// Status возвращает статус транзакции, соответствующий действию менеджера
func (a ReviewAction) Status() TransactionStatus {
	switch a {
	case ReviewActionAccept:
		return TransactionStatusAccepted
	case ReviewActionReject:
		return TransactionStatusRejected
	default:
		return TransactionStatusCommented
	}
}

// PagedResponse - страничный конверт для списков транзакций
type PagedResponse struct {
	Content       []Transaction `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	First         bool          `json:"first"`
	Last          bool          `json:"last"`
}

func NewPagedResponse(content []Transaction, page, size int, totalElements int64) *PagedResponse {
	if content == nil {
		content = []Transaction{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}

	return &PagedResponse{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// SummaryStats - авторитетные счётчики транзакций по всей системе.
// Total может расходиться с суммой трёх статусов, агрегатор обязан это терпеть.
type SummaryStats struct {
	Accepted int64 `json:"accepted"`
	Pending  int64 `json:"pending"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
