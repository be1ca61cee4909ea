package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-finance-api/internal/model"
)

func TestBucketByMonth_GroupsAndSums(t *testing.T) {
	history := []model.StatisticSnapshot{
		snapshot("2026-07-01", 100, 40),
		snapshot("2026-07-15", 200, 60),
		snapshot("2026-08-02", 500, 100),
	}

	buckets := BucketByMonth(history)
	require.Len(t, buckets, 2)

	assert.Equal(t, "Jul 2026", buckets[0].Label)
	assert.True(t, buckets[0].Income.Equal(dec(300)))
	assert.True(t, buckets[0].Spending.Equal(dec(100)))
	assert.True(t, buckets[0].NetProfit.Equal(dec(200)))

	assert.Equal(t, "Aug 2026", buckets[1].Label)
	assert.True(t, buckets[1].Income.Equal(dec(500)))
}

func TestBucketByMonth_CapsAtSixMostRecent(t *testing.T) {
	var history []model.StatisticSnapshot
	date := time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		history = append(history, model.StatisticSnapshot{
			SnapshotDate: date.AddDate(0, i, 0),
			TotalIncome:  dec(int64(i + 1)),
		})
	}

	buckets := BucketByMonth(history)
	require.Len(t, buckets, 6)

	// Остаются шесть последних месяцев по возрастанию
	assert.Equal(t, "Jan 2026", buckets[0].Label)
	assert.Equal(t, "Jun 2026", buckets[5].Label)
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i-1].Month.Before(buckets[i].Month))
	}
}

func TestBucketByMonth_SumRoundTrip(t *testing.T) {
	// Сумма доходов по корзинам равна сумме доходов по снимкам
	history := []model.StatisticSnapshot{
		snapshot("2026-05-01", 111, 11),
		snapshot("2026-05-20", 222, 22),
		snapshot("2026-06-03", 333, 33),
		snapshot("2026-07-09", 444, 44),
	}

	buckets := BucketByMonth(history)

	var fromBuckets, fromHistory decimal.Decimal
	for _, b := range buckets {
		fromBuckets = fromBuckets.Add(b.Income)
	}
	for _, s := range history {
		fromHistory = fromHistory.Add(s.TotalIncome)
	}
	assert.True(t, fromBuckets.Equal(fromHistory))
}

func TestBucketByMonth_Idempotent(t *testing.T) {
	// Корзины, свёрнутые повторно по тому же ключу, дают те же суммы
	history := []model.StatisticSnapshot{
		snapshot("2026-05-01", 100, 10),
		snapshot("2026-05-20", 200, 20),
		snapshot("2026-06-03", 300, 30),
	}

	once := BucketByMonth(history)

	asSnapshots := make([]model.StatisticSnapshot, 0, len(once))
	for _, b := range once {
		asSnapshots = append(asSnapshots, model.StatisticSnapshot{
			SnapshotDate:  b.Month,
			TotalIncome:   b.Income,
			TotalSpending: b.Spending,
			NetProfit:     b.NetProfit,
		})
	}

	twice := BucketByMonth(asSnapshots)
	require.Len(t, twice, len(once))
	for i := range once {
		assert.True(t, twice[i].Income.Equal(once[i].Income))
		assert.True(t, twice[i].Spending.Equal(once[i].Spending))
		assert.True(t, twice[i].NetProfit.Equal(once[i].NetProfit))
	}
}

func TestBucketByMonth_Empty(t *testing.T) {
	assert.Empty(t, BucketByMonth(nil))
}

func TestFilterLastNDays(t *testing.T) {
	ref := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	history := []model.StatisticSnapshot{
		snapshot("2026-08-27", 3, 0),
		snapshot("2026-07-01", 1, 0), // старше 30 дней
		snapshot("2026-08-10", 2, 0),
		snapshot("2026-07-29", 4, 0), // ровно 30 дней назад - входит
	}

	filtered := FilterLastNDays(history, 30, ref)
	require.Len(t, filtered, 3)

	// Результат по возрастанию даты
	assert.Equal(t, "2026-07-29", filtered[0].SnapshotDate.Format("2006-01-02"))
	assert.Equal(t, "2026-08-10", filtered[1].SnapshotDate.Format("2006-01-02"))
	assert.Equal(t, "2026-08-27", filtered[2].SnapshotDate.Format("2006-01-02"))
}

func TestMapHourly_PreservesSourceOrder(t *testing.T) {
	samples := []model.HourlySample{
		{Hour: "00:00", Income: dec(100), Spending: dec(30)},
		{Hour: "01:00", Income: dec(250), Spending: dec(50)},
	}

	points := MapHourly(samples)
	require.Len(t, points, 2)

	assert.Equal(t, "00:00", points[0].Date)
	assert.True(t, points[0].NetProfit.Equal(dec(70)))
	assert.Equal(t, "01:00", points[1].Date)
	assert.True(t, points[1].NetProfit.Equal(dec(200)))
}
