package analytics

import (
	"fmt"

	"company-finance-api/internal/model"
)

// Пороговые значения бизнес-правил. Это константы дизайна, а не настройки:
// они кодируют фиксированную таблицу правил панели директора.
const (
	maxInsights   = 4
	maxRiskAlerts = 3

	highVolumeThreshold     = 500 // транзакций всего
	excellentApprovalRate   = 90  // процентов, строго больше
	lowApprovalRate         = 80  // процентов, строго меньше
	pendingBacklogThreshold = 20  // ожидающих транзакций
	lowActivityThreshold    = 100 // транзакций всего, строго меньше

	pendingCriticalThreshold    = 30  // ожидающих, строго больше
	rejectionRateAlertThreshold = 10  // процентов, строго больше
	spendingRatioThreshold      = 0.8 // доля расхода от дохода
)

type InsightType string

const (
	InsightPositive InsightType = "positive"
	InsightNegative InsightType = "negative"
	InsightWarning  InsightType = "warning"
)

// Insight - качественный вывод о состоянии бизнеса, пересчитывается при
// каждой агрегации и нигде не хранится
type Insight struct {
	Type InsightType `json:"type"`
	Icon string      `json:"icon"`
	Text string      `json:"text"`
}

type AlertLevel string

const (
	AlertHigh   AlertLevel = "high"
	AlertMedium AlertLevel = "medium"
	AlertLow    AlertLevel = "low"
)

// RiskAlert - предупреждение о риске
type RiskAlert struct {
	Level AlertLevel `json:"level"`
	Icon  string     `json:"icon"`
	Title string     `json:"title"`
	Text  string     `json:"text"`
}

// GenerateInsights вычисляет выводы по упорядоченной таблице правил.
// Порядок результата повторяет порядок правил, без пересортировки по
// важности; не больше maxInsights записей. Пока какой-то из входов не
// загружен, выводы не строятся.
func GenerateInsights(
	overview *OverviewStats,
	current *model.CurrentStats,
	workers *WorkersStats,
) []Insight {
	if overview == nil || current == nil || workers == nil {
		return nil
	}

	insights := make([]Insight, 0, maxInsights)

	// Правило 1: прибыль или убыток, взаимоисключающие
	if current.NetProfit.IsPositive() {
		insights = append(insights, Insight{
			Type: InsightPositive,
			Icon: "📈",
			Text: fmt.Sprintf("Business is profitable with %s net profit from %s revenue.",
				formatCurrency(current.NetProfit), formatCurrency(current.TotalIncome)),
		})
	} else {
		insights = append(insights, Insight{
			Type: InsightNegative,
			Icon: "⚠️",
			Text: fmt.Sprintf("Business is operating at a loss of %s. Review spending patterns.",
				formatCurrency(current.NetProfit.Abs())),
		})
	}

	// Правило 2: высокий объём операций
	if overview.TotalTransactions > highVolumeThreshold {
		insights = append(insights, Insight{
			Type: InsightPositive,
			Icon: "📊",
			Text: fmt.Sprintf("High transaction volume of %d indicates strong business activity.",
				overview.TotalTransactions),
		})
	}

	// Правило 3: доля одобрения, границы строгие - ровно 90 и ровно 80
	// не дают вывода
	if overview.AcceptanceRate > excellentApprovalRate {
		insights = append(insights, Insight{
			Type: InsightPositive,
			Icon: "✅",
			Text: fmt.Sprintf("Excellent %.1f%% approval rate shows efficient operations.",
				overview.AcceptanceRate),
		})
	} else if overview.AcceptanceRate < lowApprovalRate {
		insights = append(insights, Insight{
			Type: InsightWarning,
			Icon: "🔍",
			Text: fmt.Sprintf("Low %.1f%% approval rate may indicate process issues needing review.",
				overview.AcceptanceRate),
		})
	}

	// Правило 4: накопившиеся ожидающие транзакции
	if overview.TotalPending > pendingBacklogThreshold {
		insights = append(insights, Insight{
			Type: InsightWarning,
			Icon: "⏳",
			Text: fmt.Sprintf("%d pending transactions require attention to avoid delays.",
				overview.TotalPending),
		})
	}

	// Правило 5: лучший работник известен
	if workers.TopPerformer.Name != "N/A" {
		insights = append(insights, Insight{
			Type: InsightPositive,
			Icon: "🏆",
			Text: fmt.Sprintf("%s is the top performer with %s in income.",
				workers.TopPerformer.Name, formatCurrency(workers.TopPerformer.TotalIncome)),
		})
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// GenerateRiskAlerts вычисляет предупреждения по упорядоченной таблице
// правил, не больше maxRiskAlerts записей. Все границы строгие.
func GenerateRiskAlerts(overview *OverviewStats, current *model.CurrentStats) []RiskAlert {
	if overview == nil || current == nil {
		return nil
	}

	alerts := make([]RiskAlert, 0, maxRiskAlerts)

	// Правило 1: много ожидающих транзакций
	if overview.TotalPending > pendingCriticalThreshold {
		alerts = append(alerts, RiskAlert{
			Level: AlertHigh,
			Icon:  "🚨",
			Title: "High Pending Volume",
			Text: fmt.Sprintf("%d transactions awaiting approval may cause delays.",
				overview.TotalPending),
		})
	}

	// Правило 2: повышенная доля отклонений
	if overview.RejectionRate > rejectionRateAlertThreshold {
		alerts = append(alerts, RiskAlert{
			Level: AlertMedium,
			Icon:  "⚠️",
			Title: "Elevated Rejection Rate",
			Text: fmt.Sprintf("%.1f%% rejection rate is above optimal levels.",
				overview.RejectionRate),
		})
	}

	// Правило 3: расход приближается к доходу
	spendingLimit := current.TotalIncome.Mul(spendingRatio())
	if current.TotalSpending.GreaterThan(spendingLimit) {
		alerts = append(alerts, RiskAlert{
			Level: AlertMedium,
			Icon:  "💸",
			Title: "High Spending Ratio",
			Text:  "Spending is approaching income levels. Monitor cash flow.",
		})
	}

	// Правило 4: низкая активность
	if overview.TotalTransactions < lowActivityThreshold {
		alerts = append(alerts, RiskAlert{
			Level: AlertLow,
			Icon:  "📉",
			Title: "Low Activity",
			Text:  "Transaction volume is below expected levels.",
		})
	}

	if len(alerts) > maxRiskAlerts {
		alerts = alerts[:maxRiskAlerts]
	}
	return alerts
}
