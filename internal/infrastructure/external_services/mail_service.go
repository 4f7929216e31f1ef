package external_services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"

	"github.com/mpikenya/mpi-backend/internal/domain/contract"
	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

// ErrMailerNotConfigured is returned when no SMTP host is set.
var ErrMailerNotConfigured = errors.New("email service is not configured")

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// smtp attribute
type EmailService struct {
	Host        string
	Port        string
	Username    string
	AppPassword string
	From        string

	limiter *rate.Limiter
	send    sendMailFunc
}

// EmailService factory. ratePerSecond caps outgoing messages; zero or less means unlimited.
func NewEmailService(host, port, username, appPassword, from string, ratePerSecond float64) *EmailService {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = int(ratePerSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &EmailService{
		Host:        host,
		Port:        port,
		Username:    username,
		AppPassword: appPassword,
		From:        from,
		limiter:     rate.NewLimiter(limit, burst),
		send:        smtp.SendMail,
	}
}

// make sure EmailService implements contract.IEmailService.go
var _ contract.IEmailService = (*EmailService)(nil)

// SendEmail sends one HTML message. It waits for the rate limiter and gives up
// when ctx is done first.
func (es *EmailService) SendEmail(ctx context.Context, msg entity.EmailMessage) error {
	if es.Host == "" {
		return ErrMailerNotConfigured
	}
	if msg.To == "" {
		return errors.New("email recipient is required")
	}
	if err := es.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("email throttled: %w", err)
	}

	// smtp auth
	auth := smtp.PlainAuth("", es.Username, es.AppPassword, es.Host)
	// send address
	addr := fmt.Sprintf("%s:%s", es.Host, es.Port)
	if err := es.send(addr, auth, es.From, []string{msg.To}, es.buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func (es *EmailService) buildMessage(msg entity.EmailMessage) []byte {
	from := (&mail.Address{Name: sanitizeHeader(msg.FromName), Address: es.From}).String()

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", sanitizeHeader(msg.To))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(msg.ReplyTo))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// header values must stay on one line
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
