package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
	"company-finance-api/internal/service"
)

// TransactionHandler обрабатывает запросы по транзакциям
type TransactionHandler struct {
	transactionService *service.TransactionService // Сервис транзакций
	logger             *logrus.Logger              // Логгер
}

// NewTransactionHandler создает новый TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// RegisterRoutes регистрирует маршруты для работы с транзакциями.
// Статические пути регистрируются раньше шаблона с {id}.
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")                // Создание транзакции работником
	router.HandleFunc("/create", h.Create).Methods("POST")         // Исторический путь создания
	router.HandleFunc("/history", h.WorkerHistory).Methods("GET")  // История работника
	router.HandleFunc("/pending", h.ManagerPending).Methods("GET") // Очередь менеджера
	router.HandleFunc("/manager-history", h.ManagerHistory).Methods("GET")
	router.HandleFunc("/all-accepted", h.AllAccepted).Methods("GET")
	router.HandleFunc("/all-accepted-paginated", h.AllAcceptedPaginated).Methods("GET")
	router.HandleFunc("/director-filtered", h.ListFiltered).Methods("GET")
	router.HandleFunc("/director/all-pending", h.DirectorPending).Methods("GET")
	router.HandleFunc("/director/all-rejected", h.DirectorRejected).Methods("GET")
	router.HandleFunc("/director/summary-stats", h.Summary).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}", h.Get).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}/review", h.Review).Methods("PUT") // Проверка менеджером
}

// Create обрабатывает создание транзакции работником
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.TransactionRequest
	// Декодируем входные данные
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание транзакции")
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	username, ok := usernameFromContext(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	tx, err := h.transactionService.Create(r.Context(), username, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать транзакцию")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// Review обрабатывает проверку транзакции менеджером
func (h *TransactionHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор транзакции", http.StatusBadRequest)
		return
	}

	var req model.ReviewTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на проверку")
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	username, ok := usernameFromContext(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	tx, err := h.transactionService.Review(r.Context(), username, id, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось проверить транзакцию")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tx)
}

// WorkerHistory возвращает историю транзакций текущего работника
func (h *TransactionHandler) WorkerHistory(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromContext(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	txs, err := h.transactionService.WorkerHistory(r.Context(), username, statusFilter(r))
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить историю транзакций")
		http.Error(w, "Не удалось получить транзакции", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(txs)
}

// ManagerPending возвращает ожидающие транзакции текущего менеджера
func (h *TransactionHandler) ManagerPending(w http.ResponseWriter, r *http.Request) {
	pending := model.TransactionStatusPending
	h.managerQueue(w, r, &pending)
}

// ManagerHistory возвращает транзакции менеджера с необязательным фильтром
// по статусу
func (h *TransactionHandler) ManagerHistory(w http.ResponseWriter, r *http.Request) {
	h.managerQueue(w, r, statusFilter(r))
}

func (h *TransactionHandler) managerQueue(w http.ResponseWriter, r *http.Request, status *model.TransactionStatus) {
	username, ok := usernameFromContext(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	txs, err := h.transactionService.ManagerQueue(r.Context(), username, status)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить очередь менеджера")
		http.Error(w, "Не удалось получить транзакции", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(txs)
}

// AllAccepted возвращает все принятые транзакции
func (h *TransactionHandler) AllAccepted(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, model.TransactionStatusAccepted)
}

// DirectorPending возвращает все ожидающие транзакции по системе
func (h *TransactionHandler) DirectorPending(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, model.TransactionStatusPending)
}

// DirectorRejected возвращает все отклонённые транзакции по системе
func (h *TransactionHandler) DirectorRejected(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, model.TransactionStatusRejected)
}

func (h *TransactionHandler) listByStatus(w http.ResponseWriter, r *http.Request, status model.TransactionStatus) {
	txs, err := h.transactionService.AllByStatus(r.Context(), status)
	if err != nil {
		h.logger.WithField("status", status).WithError(err).
			Error("Не удалось получить транзакции по статусу")
		http.Error(w, "Не удалось получить транзакции", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(txs)
}

// AllAcceptedPaginated возвращает страницу принятых транзакций
func (h *TransactionHandler) AllAcceptedPaginated(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)

	response, err := h.transactionService.ListByStatusPaginated(
		r.Context(), model.TransactionStatusAccepted, page, size)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить страницу принятых транзакций")
		http.Error(w, "Не удалось получить транзакции", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// ListFiltered возвращает страницу транзакций с фильтрами для директора
func (h *TransactionHandler) ListFiltered(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)

	response, err := h.transactionService.ListFiltered(
		r.Context(), page, size, statusFilter(r), r.URL.Query().Get("workerUsername"))
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить список транзакций")
		http.Error(w, "Не удалось получить транзакции", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Summary возвращает сводные счётчики транзакций по всей системе
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.transactionService.Summary(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить сводные счётчики")
		http.Error(w, "Не удалось получить сводку", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// Get возвращает транзакцию по идентификатору
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор транзакции", http.StatusBadRequest)
		return
	}

	tx, err := h.transactionService.Get(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить транзакцию")
		http.Error(w, "Транзакция не найдена", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tx)
}

// statusFilter читает необязательный фильтр по статусу из query.
// Историческое значение RETURNED принимается как синоним COMMENTED.
func statusFilter(r *http.Request) *model.TransactionStatus {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	if raw == "RETURNED" {
		raw = string(model.TransactionStatusCommented)
	}
	status := model.TransactionStatus(raw)
	return &status
}

// pageParams читает номер и размер страницы с безопасными значениями по умолчанию
func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}
