package analytics

import "company-finance-api/internal/model"

// ManagersStats - показатели работы менеджеров
type ManagersStats struct {
	TotalManagers   int     `json:"totalManagers"`
	TotalApprovals  int64   `json:"totalApprovals"`
	TotalRejections int64   `json:"totalRejections"`
	TotalReviews    int64   `json:"totalReviews"`
	ApprovalRate    float64 `json:"approvalRate"`
	AvgReviewed     float64 `json:"avgReviewed"`
}

// AggregateManagers сводит счётчики проверок в показатели по менеджерам.
// Серверная сводка предпочтительна; без неё approvals считаются по странице
// транзакций, rejections - по локальному списку отклонённых.
// Возвращает nil, пока список менеджеров не загружен.
func AggregateManagers(
	managers []model.User,
	summary *model.SummaryStats,
	page []model.Transaction,
	rejected []model.Transaction,
) *ManagersStats {
	if len(managers) == 0 {
		return nil
	}

	var approvals, rejections int64
	if summary != nil {
		approvals = summary.Accepted
		rejections = summary.Rejected
	} else {
		for _, tx := range page {
			if tx.Status == model.TransactionStatusAccepted {
				approvals++
			}
		}
		rejections = int64(len(rejected))
	}

	reviews := approvals + rejections

	return &ManagersStats{
		TotalManagers:   len(managers),
		TotalApprovals:  approvals,
		TotalRejections: rejections,
		TotalReviews:    reviews,
		ApprovalRate:    rate(approvals, reviews),
		AvgReviewed:     round1(float64(reviews) / float64(len(managers))),
	}
}
