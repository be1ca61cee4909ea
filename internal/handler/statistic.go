package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
	"company-finance-api/internal/service"
)

// StatisticHandler обрабатывает запросы статистики для директора
type StatisticHandler struct {
	statisticService *service.StatisticService
	logger           *logrus.Logger
}

// NewStatisticHandler создает новый StatisticHandler
func NewStatisticHandler(statisticService *service.StatisticService, logger *logrus.Logger) *StatisticHandler {
	return &StatisticHandler{statisticService: statisticService, logger: logger}
}

// RegisterRoutes регистрирует маршруты статистики
func (h *StatisticHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/current", h.Current).Methods("GET")
	router.HandleFunc("/history", h.History).Methods("GET")
	router.HandleFunc("/hourly", h.Hourly).Methods("GET")
}

// RegisterTransactionRoutes регистрирует исторические пути статистики,
// жившие под /api/transactions в первоначальном бэкенде
func (h *StatisticHandler) RegisterTransactionRoutes(router *mux.Router) {
	router.HandleFunc("", h.Current).Methods("GET")
	router.HandleFunc("/history", h.History).Methods("GET")
	router.HandleFunc("/today-hourly", h.Hourly).Methods("GET")
}

// Current возвращает текущие итоги по всем принятым транзакциям
func (h *StatisticHandler) Current(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statisticService.CurrentStatistics(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Не удалось посчитать текущую статистику")
		http.Error(w, "Не удалось получить статистику", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stats)
}

// History возвращает дневные итоги за запрошенное число дней (по умолчанию 30)
func (h *StatisticHandler) History(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 || days > 365 {
		days = 30
	}

	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -days)

	history, err := h.statisticService.StatisticHistory(r.Context(), start, end)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить историю статистики")
		http.Error(w, "Не удалось получить историю", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []model.StatisticResponse{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(history)
}

// Hourly возвращает почасовые итоги текущих суток
func (h *StatisticHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	samples, err := h.statisticService.TodayHourly(r.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить почасовую статистику")
		http.Error(w, "Не удалось получить статистику", http.StatusInternalServerError)
		return
	}
	if samples == nil {
		samples = []model.HourlySample{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(samples)
}
