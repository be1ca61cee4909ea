package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticSnapshot - итоги по принятым транзакциям за один календарный день.
// Ровно один снимок на дату, снимок за вчерашний день создаётся ночным заданием.
type StatisticSnapshot struct {
	ID               int64           `json:"id" db:"id"`
	SnapshotDate     time.Time       `json:"-" db:"snapshot_date"`
	TotalIncome      decimal.Decimal `json:"totalIncome" db:"total_income"`
	TotalSpending    decimal.Decimal `json:"totalSpending" db:"total_spending"`
	NetProfit        decimal.Decimal `json:"netProfit" db:"net_profit"`
	TransactionCount int64           `json:"transactionCount" db:"transaction_count"`
}

// CurrentStats - текущие итоги по всем принятым транзакциям в базовой валюте
type CurrentStats struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalSpending    decimal.Decimal `json:"totalSpending"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int64           `json:"transactionCount"`
	AsOfDate         string          `json:"asOfDate"`
}

// StatisticResponse - строка истории статистики, отдаваемая клиенту
type StatisticResponse struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalSpending    decimal.Decimal `json:"totalSpending"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int64           `json:"transactionCount"`
	AsOfDate         string          `json:"asOfDate"` // YYYY-MM-DD
}

// HourlySample - накопленные итоги по одному часу текущих суток.
// Порядок часов задаётся источником и считается хронологическим.
type HourlySample struct {
	Hour      string          `json:"hour"` // "00:00".."23:00"
	Income    decimal.Decimal `json:"income"`
	Spending  decimal.Decimal `json:"spending"`
	NetProfit decimal.Decimal `json:"netProfit"`
}
