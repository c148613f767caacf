package email

import (
	"context"

	"github.com/fixmysite/portal/internal/shared/logger"
)

// LogMailer records emails instead of sending them. Used in development.
type LogMailer struct {
	logger logger.Interface
}

func NewLogMailer(log logger.Interface) *LogMailer {
	return &LogMailer{logger: log}
}

func (l *LogMailer) Send(_ context.Context, msg Message) error {
	l.logger.Infow("email (log driver)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
