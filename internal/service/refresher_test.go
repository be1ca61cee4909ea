package service

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefresher() *DashboardRefresher {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewDashboardRefresher(nil, time.Minute, logger)
}

func dashboardAt(t time.Time) *DirectorDashboard {
	return &DirectorDashboard{GeneratedAt: t}
}

func TestRefresher_LatestNilBeforeFirstPass(t *testing.T) {
	r := newTestRefresher()
	assert.Nil(t, r.Latest())
}

func TestRefresher_AppliesNewerSnapshot(t *testing.T) {
	r := newTestRefresher()
	now := time.Now()

	require.True(t, r.apply(1, dashboardAt(now)))
	require.NotNil(t, r.Latest())
	assert.Equal(t, now, r.Latest().GeneratedAt)

	later := now.Add(time.Second)
	require.True(t, r.apply(2, dashboardAt(later)))
	assert.Equal(t, later, r.Latest().GeneratedAt)
}

func TestRefresher_StaleSnapshotRejected(t *testing.T) {
	r := newTestRefresher()
	fresh := time.Now()
	stale := fresh.Add(-time.Minute)

	// Проход 2 финишировал раньше прохода 1
	require.True(t, r.apply(2, dashboardAt(fresh)))
	assert.False(t, r.apply(1, dashboardAt(stale)))
	assert.Equal(t, fresh, r.Latest().GeneratedAt)

	// Повтор того же номера тоже отбрасывается
	assert.False(t, r.apply(2, dashboardAt(stale)))
	assert.Equal(t, fresh, r.Latest().GeneratedAt)
}

func TestRefresher_ConcurrentAppliesKeepNewest(t *testing.T) {
	r := newTestRefresher()
	base := time.Now()

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			r.apply(seq, dashboardAt(base.Add(time.Duration(seq)*time.Millisecond)))
		}(uint64(i))
	}
	wg.Wait()

	require.NotNil(t, r.Latest())
	assert.Equal(t, base.Add(100*time.Millisecond), r.Latest().GeneratedAt)
}
