package campaigns

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/he2-ai/backoffice-backend/pkg/config"
	"github.com/he2-ai/backoffice-backend/pkg/logger"
)

// Mailer delivers a single rendered campaign email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewMailer builds the campaign mailer. When SMTP is disabled the mailer
// logs instead of sending, so campaigns are testable in development.
func NewMailer(cfg config.SMTPConfig, logg *logger.Logger) Mailer {
	if !cfg.Enabled {
		return &logMailer{logg: logg}
	}
	return &smtpMailer{cfg: cfg}
}

// Send delivers one message, retrying transient SMTP failures with
// exponential backoff.
func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	backoff := retry.WithMaxRetries(m.cfg.MaxRetries, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := m.send(to, subject, htmlBody); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		from, to, subject, htmlBody,
	))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg)
}

type logMailer struct {
	logg *logger.Logger
}

func (l *logMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{"to": to, "subject": subject})
		l.logg.Info(ctx, "smtp disabled, campaign email not sent")
	}
	return nil
}
