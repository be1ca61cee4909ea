package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"company-finance-api/internal/model"
)

// FinancialStats - финансовые показатели текущего месяца
type FinancialStats struct {
	MonthlyIncome   decimal.Decimal `json:"monthlyIncome"`
	MonthlySpending decimal.Decimal `json:"monthlySpending"`
	MonthlyProfit   decimal.Decimal `json:"monthlyProfit"`
	MonthlyGrowth   float64         `json:"monthlyGrowth"`
}

// AggregateFinancial строит месячные итоги из истории дневных снимков.
// Итогом месяца считается самый свежий снимок внутри календарного месяца
// now; базой роста - самый свежий снимок предыдущего месяца. Пустая история
// целиком заменяется текущей статистикой с нулевым ростом; без неё nil.
func AggregateFinancial(
	history []model.StatisticSnapshot,
	current *model.CurrentStats,
	now time.Time,
) *FinancialStats {
	if len(history) == 0 {
		if current == nil {
			return nil
		}
		return &FinancialStats{
			MonthlyIncome:   current.TotalIncome,
			MonthlySpending: current.TotalSpending,
			MonthlyProfit:   current.NetProfit,
			MonthlyGrowth:   0,
		}
	}

	year, month, _ := now.Date()
	latest := latestInMonth(history, year, month)

	prevMonthRef := now.AddDate(0, -1, -now.Day()+1) // первый день предыдущего месяца
	prevYear, prevMonth, _ := prevMonthRef.Date()
	baseline := latestInMonth(history, prevYear, prevMonth)

	var income, spending, profit decimal.Decimal
	if latest != nil {
		income = latest.TotalIncome
		spending = latest.TotalSpending
		profit = latest.NetProfit
	} else if current != nil {
		// В текущем месяце снимков ещё нет - берём текущую статистику
		income = current.TotalIncome
		spending = current.TotalSpending
		profit = current.NetProfit
	}

	var baselineIncome decimal.Decimal
	if baseline != nil {
		baselineIncome = baseline.TotalIncome
	}

	return &FinancialStats{
		MonthlyIncome:   income,
		MonthlySpending: spending,
		MonthlyProfit:   profit,
		MonthlyGrowth:   MonthlyGrowth(income, baselineIncome),
	}
}

// MonthlyGrowth возвращает рост дохода к базе в процентах.
// Нулевая база: 100 при положительном текущем доходе, иначе 0.
func MonthlyGrowth(current, baseline decimal.Decimal) float64 {
	if !baseline.IsPositive() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}

	delta := current.Sub(baseline).Div(baseline).Mul(decimal.NewFromInt(100))
	v, _ := delta.Float64()
	return round1(v)
}

// latestInMonth возвращает самый свежий снимок указанного календарного
// месяца или nil, если таких нет
func latestInMonth(history []model.StatisticSnapshot, year int, month time.Month) *model.StatisticSnapshot {
	var latest *model.StatisticSnapshot
	for i := range history {
		s := &history[i]
		y, m, _ := s.SnapshotDate.Date()
		if y != year || m != month {
			continue
		}
		if latest == nil || s.SnapshotDate.After(latest.SnapshotDate) {
			latest = s
		}
	}
	return latest
}
