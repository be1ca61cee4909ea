package analytics

import (
	"github.com/shopspring/decimal"

	"company-finance-api/internal/model"
)

// RandSource - источник случайных чисел [0,1) для синтетической оценки
// дохода. nil отключает оценку: вместо придуманных цифр остаются нули.
type RandSource func() float64

// WorkerAggregate - свёртка транзакций одного работника
type WorkerAggregate struct {
	WorkerID             int64           `json:"workerId"`
	Name                 string          `json:"name"`
	TotalIncome          decimal.Decimal `json:"totalIncome"`
	TotalTransactions    int             `json:"totalTransactions"`
	AcceptedTransactions int             `json:"acceptedTransactions"`
}

// WorkersStats - показатели по работникам
type WorkersStats struct {
	TotalWorkers             int               `json:"totalWorkers"`
	TopPerformer             WorkerAggregate   `json:"topPerformer"`
	AvgTransactionsPerWorker float64           `json:"avgTransactionsPerWorker"`
	ApprovalRate             float64           `json:"approvalRate"`
	PerWorker                []WorkerAggregate `json:"perWorker"`
	// Estimated - доходы работников не посчитаны, а оценены распределением
	// общего дохода, потому что текущая страница транзакций их не содержит
	Estimated bool `json:"estimated"`
}

// AggregateWorkers сводит страницу транзакций в показатели по работникам.
// Для каждого работника из списка создаётся запись, даже если на странице
// нет ни одной его транзакции. Возвращает nil, пока список работников
// не загружен.
func AggregateWorkers(
	workers []model.User,
	page []model.Transaction,
	summary *model.SummaryStats,
	current *model.CurrentStats,
	rnd RandSource,
) *WorkersStats {
	if len(workers) == 0 {
		return nil
	}

	// Одна запись на работника в порядке списка, счётчики нулевые
	aggregates := make([]WorkerAggregate, len(workers))
	byID := make(map[int64]*WorkerAggregate, len(workers))
	for i, w := range workers {
		name := w.Username
		if w.FullName != "" {
			name = w.FullName
		}
		aggregates[i] = WorkerAggregate{WorkerID: w.ID, Name: name}
		byID[w.ID] = &aggregates[i]
	}

	// Свёртка страницы транзакций: доход учитывается только по принятым
	// операциям типа INCOME
	for _, tx := range page {
		agg, ok := byID[tx.WorkerID]
		if !ok {
			continue
		}
		agg.TotalTransactions++
		if tx.Status == model.TransactionStatusAccepted {
			agg.AcceptedTransactions++
			if tx.Type == model.TransactionTypeIncome {
				agg.TotalIncome = agg.TotalIncome.Add(tx.Amount)
			}
		}
	}

	top := TopPerformer(aggregates)

	// Авторитетное общее число транзакций, если сводка доступна
	var totalCount int64
	if summary != nil {
		totalCount = summary.Total
	} else if current != nil {
		totalCount = current.TransactionCount
	}

	estimated := false
	if top.TotalIncome.IsZero() && current != nil && current.TotalIncome.IsPositive() && rnd != nil {
		// Страница не дала дохода ни по одному работнику, но доход в системе
		// есть: распределяем его поровну с разбросом ±20%, чтобы панель не
		// показывала нули. Это оценка для отображения, помеченная флагом.
		avg := current.TotalIncome.Div(decimal.NewFromInt(int64(len(workers))))
		for i := range aggregates {
			factor := decimal.NewFromFloat(0.8 + rnd()*0.4)
			aggregates[i].TotalIncome = avg.Mul(factor).Round(0)
		}
		top = TopPerformer(aggregates)
		estimated = true
	}

	// Доля принятых: предпочитаем серверные счётчики, иначе долю по странице
	var approvalRate float64
	if summary != nil && totalCount > 0 {
		approvalRate = rate(summary.Accepted, totalCount)
	} else if len(page) > 0 {
		acceptedOnPage := 0
		for _, tx := range page {
			if tx.Status == model.TransactionStatusAccepted {
				acceptedOnPage++
			}
		}
		approvalRate = rate(int64(acceptedOnPage), int64(len(page)))
	}

	avgPerWorker := 0.0
	if totalCount > 0 {
		avgPerWorker = round1(float64(totalCount) / float64(len(workers)))
	}

	return &WorkersStats{
		TotalWorkers:             len(workers),
		TopPerformer:             top,
		AvgTransactionsPerWorker: avgPerWorker,
		ApprovalRate:             approvalRate,
		PerWorker:                aggregates,
		Estimated:                estimated,
	}
}

// TopPerformer возвращает работника с максимальным доходом.
// При равенстве побеждает стоящий раньше в списке. Для пустого списка
// возвращается заглушка с именем "N/A".
func TopPerformer(aggregates []WorkerAggregate) WorkerAggregate {
	if len(aggregates) == 0 {
		return WorkerAggregate{Name: "N/A"}
	}

	top := aggregates[0]
	for _, agg := range aggregates[1:] {
		if agg.TotalIncome.GreaterThan(top.TotalIncome) {
			top = agg
		}
	}
	return top
}
