package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// DashboardRefresher периодически пересобирает панель директора в фоне,
// чтобы запрос отдавал готовый срез без ожидания всех источников.
//
// Каждый проход получает монотонно растущий порядковый номер. Срез
// применяется только если его номер больше уже применённого: медленный
// старый проход никогда не затирает результат более свежего.
type DashboardRefresher struct {
	dashboards *DashboardService
	interval   time.Duration
	logger     *logrus.Logger

	seq atomic.Uint64 // номер следующего прохода

	mu      sync.RWMutex
	applied uint64 // номер последнего применённого среза
	latest  *DirectorDashboard

	stop chan struct{}
	done chan struct{}
}

func NewDashboardRefresher(dashboards *DashboardService, interval time.Duration, logger *logrus.Logger) *DashboardRefresher {
	return &DashboardRefresher{
		dashboards: dashboards,
		interval:   interval,
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start запускает фоновый цикл обновления. Первый проход выполняется сразу.
func (r *DashboardRefresher) Start() {
	go func() {
		defer close(r.done)

		r.refresh()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.refresh()
			case <-r.stop:
				return
			}
		}
	}()

	r.logger.WithField("interval", r.interval).Info("Фоновое обновление панели запущено")
}

// Stop останавливает цикл и дожидается завершения текущего прохода
func (r *DashboardRefresher) Stop() {
	close(r.stop)
	<-r.done
	r.logger.Info("Фоновое обновление панели остановлено")
}

func (r *DashboardRefresher) refresh() {
	seq := r.seq.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	dashboard, err := r.dashboards.Build(ctx, DashboardQuery{Page: 0, Size: 20})
	if err != nil {
		r.logger.WithError(err).Error("Ошибка фонового пересчёта панели")
		return
	}

	if !r.apply(seq, dashboard) {
		r.logger.WithField("seq", seq).Debug("Срез устарел и отброшен")
	}
}

// apply сохраняет срез, если он свежее уже применённого
func (r *DashboardRefresher) apply(seq uint64, dashboard *DirectorDashboard) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq <= r.applied {
		return false
	}
	r.applied = seq
	r.latest = dashboard
	return true
}

// Latest возвращает последний применённый срез, nil до первого прохода
func (r *DashboardRefresher) Latest() *DirectorDashboard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}
