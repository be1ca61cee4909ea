// Package analytics - чистые функции агрегации директорской аналитики.
// Превращают сырые снимки данных (авторитетные счётчики, страничные списки
// транзакций, дневные и почасовые срезы) в бизнес-показатели панели директора.
//
// Все функции терпимы к отсутствующим входам: nil на входе означает
// "ещё не загружено", а не ноль, и даёт nil на выходе вместо нулевых KPI.
package analytics

import (
	"math"

	"company-finance-api/internal/model"
)

// OverviewSource помечает происхождение сводных счётчиков
type OverviewSource string

const (
	// SourceAuthoritative - счётчики посчитаны сервером по всей системе
	SourceAuthoritative OverviewSource = "authoritative"
	// SourceApproximated - приближение по страничным спискам, может занижать
	SourceApproximated OverviewSource = "approximated"
)

// OverviewStats - сводные показатели по всем транзакциям компании
type OverviewStats struct {
	TotalAccepted     int64          `json:"totalAccepted"`
	TotalPending      int64          `json:"totalPending"`
	TotalRejected     int64          `json:"totalRejected"`
	TotalTransactions int64          `json:"totalTransactions"`
	AcceptanceRate    float64        `json:"acceptanceRate"`
	RejectionRate     float64        `json:"rejectionRate"`
	Source            OverviewSource `json:"source"`
}

// AggregateOverview сводит счётчики транзакций в обзорные показатели.
// Авторитетная сводка summary имеет приоритет; без неё берётся приближение
// из текущей статистики и локальных списков. Если не загружено ни то ни
// другое, возвращается nil - вызывающий показывает состояние загрузки.
func AggregateOverview(
	summary *model.SummaryStats,
	current *model.CurrentStats,
	pending []model.Transaction,
	rejected []model.Transaction,
) *OverviewStats {
	if summary != nil {
		total := summary.Total
		if total == 0 {
			// Поле total отсутствует или не заполнено - суммируем сами
			total = summary.Accepted + summary.Pending + summary.Rejected
		}

		return &OverviewStats{
			TotalAccepted:     summary.Accepted,
			TotalPending:      summary.Pending,
			TotalRejected:     summary.Rejected,
			TotalTransactions: total,
			AcceptanceRate:    rate(summary.Accepted, total),
			RejectionRate:     rate(summary.Rejected, total),
			Source:            SourceAuthoritative,
		}
	}

	if current == nil {
		// Ни сводки, ни текущей статистики - данные ещё не загружены
		return nil
	}

	// Приближение: accepted из текущей статистики, pending/rejected по
	// локальным спискам, которые могут быть страничными или усечёнными ролью
	accepted := current.TransactionCount
	pendingCount := int64(len(pending))
	rejectedCount := int64(len(rejected))
	total := accepted + pendingCount + rejectedCount

	return &OverviewStats{
		TotalAccepted:     accepted,
		TotalPending:      pendingCount,
		TotalRejected:     rejectedCount,
		TotalTransactions: total,
		AcceptanceRate:    rate(accepted, total),
		RejectionRate:     rate(rejectedCount, total),
		Source:            SourceApproximated,
	}
}

// rate возвращает долю part от total в процентах с одним знаком после
// запятой, 0 при пустом total
func rate(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
