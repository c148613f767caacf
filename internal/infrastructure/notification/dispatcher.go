package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	requestusecases "github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	ticketusecases "github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/infrastructure/email"
	"github.com/fixmysite/portal/internal/shared/goroutine"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const defaultSendTimeout = 30 * time.Second

// EmailDispatcher sends client notifications in the background. A send to
// one of the alert addresses also pings the support team.
type EmailDispatcher struct {
	mailer         email.Mailer
	template       *email.NotificationTemplate
	alerter        requestusecases.Alerter
	alertAddresses []string
	timeout        time.Duration
	logger         logger.Interface
}

func NewEmailDispatcher(
	mailer email.Mailer,
	template *email.NotificationTemplate,
	alerter requestusecases.Alerter,
	alertAddresses []string,
	logger logger.Interface,
) *EmailDispatcher {
	addrs := make([]string, 0, len(alertAddresses))
	for _, a := range alertAddresses {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			addrs = append(addrs, a)
		}
	}
	return &EmailDispatcher{
		mailer:         mailer,
		template:       template,
		alerter:        alerter,
		alertAddresses: addrs,
		timeout:        defaultSendTimeout,
		logger:         logger,
	}
}

// Notify returns immediately. Failures are logged.
func (d *EmailDispatcher) Notify(_ context.Context, to, name, subject, body string) {
	goroutine.Detach(d.logger, "email-notify", d.timeout, func(ctx context.Context) {
		if err := d.Send(ctx, to, name, subject, body); err != nil {
			d.logger.Errorw("failed to send notification email", "to", to, "subject", subject, "error", err)
		}
	})
}

// Send delivers synchronously.
func (d *EmailDispatcher) Send(ctx context.Context, to, name, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient address is empty")
	}

	msg, err := d.template.Render(to, name, subject, body)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return err
	}
	d.logger.Infow("email sent", "to", to, "subject", subject)

	if d.alerter != nil && d.isAlertAddress(to) {
		err := d.alerter.Alert(ctx, requestusecases.Alert{
			Title:    "Email Sent",
			Message:  fmt.Sprintf("To: %s\nSubject: %s", to, subject),
			Tags:     []string{"email"},
			Priority: 3,
		})
		if err != nil {
			d.logger.Warnw("failed to send email alert", "error", err)
		}
	}
	return nil
}

func (d *EmailDispatcher) isAlertAddress(to string) bool {
	to = strings.ToLower(to)
	for _, a := range d.alertAddresses {
		if strings.Contains(to, a) {
			return true
		}
	}
	return false
}

var _ ticketusecases.Notifier = (*EmailDispatcher)(nil)
