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

// NotificationHandler обрабатывает запросы по уведомлениям текущего пользователя
type NotificationHandler struct {
	notificationService *service.NotificationService
	userService         *service.UserService
	logger              *logrus.Logger
}

// NewNotificationHandler создает новый NotificationHandler
func NewNotificationHandler(
	notificationService *service.NotificationService,
	userService *service.UserService,
	logger *logrus.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		userService:         userService,
		logger:              logger,
	}
}

// RegisterRoutes регистрирует маршруты уведомлений
func (h *NotificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.List).Methods("GET")
	router.HandleFunc("/unread-count", h.UnreadCount).Methods("GET")
	router.HandleFunc("/read-all", h.MarkAllRead).Methods("PUT")
	router.HandleFunc("/{id:[0-9]+}/read", h.MarkRead).Methods("PUT")
}

// currentUserID находит идентификатор пользователя по имени из контекста
func (h *NotificationHandler) currentUserID(r *http.Request) (int64, bool) {
	username, ok := usernameFromContext(r)
	if !ok {
		return 0, false
	}

	user, err := h.userService.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.logger.WithField("username", username).WithError(err).
			Error("Не удалось найти пользователя по токену")
		return 0, false
	}
	return user.ID, true
}

// List возвращает уведомления текущего пользователя
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	notifications, err := h.notificationService.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить уведомления")
		http.Error(w, "Не удалось получить уведомления", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notifications)
}

// UnreadCount возвращает число непрочитанных уведомлений
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	count, err := h.notificationService.CountUnread(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось посчитать непрочитанные уведомления")
		http.Error(w, "Не удалось получить счётчик", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(model.UnreadCountResponse{Count: count})
}

// MarkRead помечает уведомление прочитанным
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Неверный идентификатор уведомления", http.StatusBadRequest)
		return
	}

	userID, ok := h.currentUserID(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id, userID); err != nil {
		h.logger.WithError(err).Error("Не удалось пометить уведомление прочитанным")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		http.Error(w, "Неавторизованный доступ", http.StatusUnauthorized)
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		h.logger.WithError(err).Error("Не удалось пометить уведомления прочитанными")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}
