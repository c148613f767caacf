package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

type SendGridMailer struct {
	apiKey string
	host   string
	from   Sender
}

func NewSendGridMailer(apiKey string, from Sender) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, host: sendGridHost, from: from}
}

// WithHost points the mailer at another API host.
func (s *SendGridMailer) WithHost(host string) *SendGridMailer {
	s.host = host
	return s
}

func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	body := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Address),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.Text,
		msg.HTML,
	)

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(body)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
