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

// UserHandler обрабатывает запросы управления пользователями.
// Подключается под маршрутизатор, защищённый ролью директора.
type UserHandler struct {
	userService *service.UserService
	logger      *logrus.Logger
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(userService *service.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes регистрирует маршруты управления пользователями
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.Create).Methods("POST")
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}", h.Get).Methods("GET")
	router.HandleFunc("/{id:[0-9]+}", h.Update).Methods("PUT")
	router.HandleFunc("/{id:[0-9]+}", h.Deactivate).Methods("DELETE")
	// Назначение и смена менеджера - одна операция с двумя историческими путями
	router.HandleFunc("/{id:[0-9]+}/assign-manager", h.AssignManager).Methods("PUT")
	router.HandleFunc("/{id:[0-9]+}/update-manager", h.AssignManager).Methods("PUT")
}

// Create обрабатывает создание нового пользователя
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание пользователя")
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать пользователя")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// List возвращает пользователей, при необходимости отфильтрованных по роли
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		users []model.User
		err   error
	)

	if raw := r.URL.Query().Get("role"); raw != "" {
		role, parseErr := model.ParseUserRole(raw)
		if parseErr != nil {
			http.Error(w, parseErr.Error(), http.StatusBadRequest)
			return
		}
		users, err = h.userService.ListByRole(r.Context(), role)
	} else {
		users, err = h.userService.ListUsers(r.Context())
	}

	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить список пользователей")
		http.Error(w, "Не удалось получить пользователей", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
}

// Get возвращает пользователя по идентификатору
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		http.Error(w, "Пользователь не найден", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
}

// Update обрабатывает обновление данных пользователя
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	var req model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на обновление пользователя")
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось обновить пользователя")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
}

// Deactivate помечает пользователя неактивным
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	if err := h.userService.DeactivateUser(r.Context(), id); err != nil {
		h.logger.WithError(err).Error("Не удалось деактивировать пользователя")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssignManager назначает менеджера работнику
func (h *UserHandler) AssignManager(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор пользователя", http.StatusBadRequest)
		return
	}

	var req model.AssignManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на назначение менеджера")
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.userService.AssignManager(r.Context(), id, req.ManagerID); err != nil {
		h.logger.WithError(err).Error("Не удалось назначить менеджера")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}
