package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/service"
)

// DashboardHandler отдаёт аналитическую панель директора
type DashboardHandler struct {
	dashboardService *service.DashboardService
	refresher        *service.DashboardRefresher
	logger           *logrus.Logger
}

// NewDashboardHandler создает новый DashboardHandler
func NewDashboardHandler(
	dashboardService *service.DashboardService,
	refresher *service.DashboardRefresher,
	logger *logrus.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		refresher:        refresher,
		logger:           logger,
	}
}

// RegisterRoutes регистрирует маршрут панели директора
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
}

// Dashboard возвращает полный срез аналитики. Запрос без параметров отдаёт
// прогретый фоновым обновлением срез; параметры страницы или фильтры
// всегда собирают панель заново.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	defaultView := query.Get("page") == "" && query.Get("size") == "" &&
		query.Get("status") == "" && query.Get("workerUsername") == ""

	if defaultView {
		if cached := h.refresher.Latest(); cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(cached)
			return
		}
	}

	page, size := pageParams(r)
	dashboard, err := h.dashboardService.Build(r.Context(), service.DashboardQuery{
		Page:           page,
		Size:           size,
		Status:         statusFilter(r),
		WorkerUsername: query.Get("workerUsername"),
	})
	if err != nil {
		h.logger.WithError(err).Error("Не удалось собрать панель директора")
		http.Error(w, "Не удалось собрать панель", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dashboard)
}
