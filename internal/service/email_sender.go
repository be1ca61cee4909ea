package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"company-finance-api/internal/model"
)

type EmailSender struct {
	dialer  *mail.Dialer
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(logger *logrus.Logger) *EmailSender {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	enabled := os.Getenv("EMAIL_SENDER_ENABLED") == "true"
	isInsecureSkipVerify := os.Getenv("INSECURE_SKIP_VERIFY") == "true"

	// Преобразуем smtpPort в int
	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		if enabled {
			logger.Fatalf("Ошибка преобразования SMTP_PORT: %v", err)
		}
		smtpPort = 587
	}

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: isInsecureSkipVerify,
	}
	return &EmailSender{
		dialer:  d,
		logger:  logger,
		enabled: enabled,
	}
}

// SendNewTransactionNotification уведомляет менеджера о новой транзакции работника
func (es *EmailSender) SendNewTransactionNotification(email string, tx *model.Transaction) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := fmt.Sprintf("Новая транзакция #%d на проверку", tx.ID)
	content := fmt.Sprintf(`
		<h1>Новая транзакция</h1>
		<p>Работник: <strong>%s</strong></p>
		<p>Тип: <strong>%s</strong></p>
		<p>Сумма: <strong>%s %s</strong></p>
		<p>Товар: <strong>%s</strong></p>
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, tx.WorkerName, tx.Type, tx.Amount.String(), tx.Currency, tx.Product,
		time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

// SendReviewNotification уведомляет работника о результате проверки
func (es *EmailSender) SendReviewNotification(email string, tx *model.Transaction) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	comment := ""
	if tx.ManagerComment != nil {
		comment = fmt.Sprintf("<p>Комментарий: <strong>%s</strong></p>", *tx.ManagerComment)
	}

	subject := fmt.Sprintf("Результат проверки транзакции #%d", tx.ID)
	content := fmt.Sprintf(`
		<h1>Транзакция проверена</h1>
		<p>Статус: <strong>%s</strong></p>
		<p>Сумма: <strong>%s %s</strong></p>
		%s
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, tx.Status, tx.Amount.String(), tx.Currency, comment,
		time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Ошибка отправки email")
		return fmt.Errorf("не удалось отправить email: %w", err)
	}

	es.logger.Infof("Email успешно отправлен на %s", to)
	return nil
}
