package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"company-finance-api/internal/model"
)

// maxMonthlyBuckets - сколько последних месяцев попадает на график
const maxMonthlyBuckets = 6

// MonthlyBucket - итоги по одному календарному месяцу
type MonthlyBucket struct {
	Month     time.Time       `json:"-"`
	Label     string          `json:"month"` // "Jan 2006"
	Income    decimal.Decimal `json:"income"`
	Spending  decimal.Decimal `json:"spending"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// ChartPoint - точка графика доход/расход
type ChartPoint struct {
	Date      string          `json:"date"`
	Income    decimal.Decimal `json:"income"`
	Spending  decimal.Decimal `json:"spending"`
	NetProfit decimal.Decimal `json:"profit"`
}

// BucketByMonth группирует дневные снимки по календарным месяцам, суммируя
// доход, расход и прибыль. Результат отсортирован по возрастанию месяца и
// усечён до последних maxMonthlyBuckets.
func BucketByMonth(history []model.StatisticSnapshot) []MonthlyBucket {
	if len(history) == 0 {
		return []MonthlyBucket{}
	}

	byMonth := make(map[time.Time]*MonthlyBucket)
	for _, s := range history {
		y, m, _ := s.SnapshotDate.Date()
		key := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlyBucket{Month: key, Label: key.Format("Jan 2006")}
			byMonth[key] = bucket
		}
		bucket.Income = bucket.Income.Add(s.TotalIncome)
		bucket.Spending = bucket.Spending.Add(s.TotalSpending)
		bucket.NetProfit = bucket.NetProfit.Add(s.NetProfit)
	}

	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month.Before(buckets[j].Month)
	})

	if len(buckets) > maxMonthlyBuckets {
		buckets = buckets[len(buckets)-maxMonthlyBuckets:]
	}
	return buckets
}

// FilterLastNDays оставляет снимки не старше n дней от ref, по возрастанию даты
func FilterLastNDays(history []model.StatisticSnapshot, n int, ref time.Time) []model.StatisticSnapshot {
	cutoff := ref.AddDate(0, 0, -n)

	filtered := make([]model.StatisticSnapshot, 0, len(history))
	for _, s := range history {
		if !s.SnapshotDate.Before(cutoff) {
			filtered = append(filtered, s)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].SnapshotDate.Before(filtered[j].SnapshotDate)
	})
	return filtered
}

// MapHourly переводит почасовые срезы в точки графика.
// Порядок источника сохраняется: он хронологический по контракту.
func MapHourly(samples []model.HourlySample) []ChartPoint {
	points := make([]ChartPoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, ChartPoint{
			Date:      s.Hour,
			Income:    s.Income,
			Spending:  s.Spending,
			NetProfit: s.Income.Sub(s.Spending),
		})
	}
	return points
}

// MapDaily переводит дневные снимки в точки графика с короткой датой
func MapDaily(history []model.StatisticSnapshot) []ChartPoint {
	points := make([]ChartPoint, 0, len(history))
	for _, s := range history {
		points = append(points, ChartPoint{
			Date:      s.SnapshotDate.Format("Jan 2"),
			Income:    s.TotalIncome,
			Spending:  s.TotalSpending,
			NetProfit: s.TotalIncome.Sub(s.TotalSpending),
		})
	}
	return points
}
