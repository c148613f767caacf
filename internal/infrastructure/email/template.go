package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/fixmysite/portal/internal/shared/constants"
	"github.com/fixmysite/portal/internal/shared/services/markdown"
)

//go:embed templates/notification.html
var notificationLayout string

// NotificationTemplate wraps a markdown body in the branded layout.
type NotificationTemplate struct {
	layout   *template.Template
	markdown markdown.Renderer
}

func NewNotificationTemplate(renderer markdown.Renderer) (*NotificationTemplate, error) {
	layout, err := template.New("notification").Parse(notificationLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification template: %w", err)
	}
	return &NotificationTemplate{layout: layout, markdown: renderer}, nil
}

type notificationView struct {
	Title string
	Name  string
	Body  template.HTML
	Brand string
}

// Render builds the message for one recipient. The body is rendered from
// markdown and sanitised; title and name are escaped by the template.
func (t *NotificationTemplate) Render(to, name, subject, body string) (Message, error) {
	bodyHTML, err := t.markdown.Render(body)
	if err != nil {
		return Message{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = "there"
	}

	var buf bytes.Buffer
	err = t.layout.Execute(&buf, notificationView{
		Title: subject,
		Name:  name,
		Body:  template.HTML(bodyHTML),
		Brand: constants.BrandName,
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render notification: %w", err)
	}

	text := fmt.Sprintf("Hello %s,\n\n%s\n\nThank you for using %s!\n", name, body, constants.BrandName)

	return Message{
		To:      to,
		ToName:  name,
		Subject: subject,
		HTML:    buf.String(),
		Text:    text,
	}, nil
}
