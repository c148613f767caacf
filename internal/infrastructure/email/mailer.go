// Package email sends transactional mail through SMTP, SendGrid or the log.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixmysite/portal/internal/shared/config"
	"github.com/fixmysite/portal/internal/shared/logger"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

const (
	DriverSMTP     = "smtp"
	DriverSendGrid = "sendgrid"
	DriverLog      = "log"
)

// Message is one outbound email. Text is the plain alternative of HTML.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Sender struct {
	Address string
	Name    string
}

// NewMailer picks the transport named by cfg.Driver.
func NewMailer(cfg config.EmailConfig, log logger.Interface) (Mailer, error) {
	from := Sender{Address: cfg.FromAddress, Name: cfg.FromName}

	switch strings.ToLower(cfg.Driver) {
	case DriverSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("%w: smtp_host is empty", ErrEmailServiceNotConfigured)
		}
		log.Infow("email transport initialized", "driver", DriverSMTP, "host", cfg.SMTPHost, "port", cfg.SMTPPort)
		return NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     from,
		}), nil
	case DriverSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("%w: sendgrid_api_key is empty", ErrEmailServiceNotConfigured)
		}
		log.Infow("email transport initialized", "driver", DriverSendGrid)
		return NewSendGridMailer(cfg.SendGridAPIKey, from), nil
	case DriverLog, "":
		log.Infow("email transport initialized", "driver", DriverLog)
		return NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unsupported email driver %q", cfg.Driver)
	}
}
