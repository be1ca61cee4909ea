package model

import "time"

type NotificationType string

const (
	NotificationTypeNewTransaction NotificationType = "NEW_TRANSACTION" // работник создал транзакцию
	NotificationTypeAccepted       NotificationType = "ACCEPT"
	NotificationTypeRejected       NotificationType = "REJECT"
	NotificationTypeCommented      NotificationType = "COMMENT"
)

// Notification - внутреннее уведомление пользователю о событии по транзакции.
// Доставка через периодический опрос клиентом, push не используется.
type Notification struct {
	ID            int64            `json:"id" db:"id"`
	UserID        int64            `json:"-" db:"user_id"`
	Type          NotificationType `json:"type" db:"type"`
	TransactionID int64            `json:"transactionId" db:"transaction_id"`
	Message       string           `json:"message" db:"message"`
	IsRead        bool             `json:"isRead" db:"is_read"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
