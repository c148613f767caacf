package notification

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	"github.com/fixmysite/portal/internal/infrastructure/email"
	"github.com/fixmysite/portal/internal/shared/config"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/services/markdown"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
	done chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{done: make(chan struct{}, 4)}
}

func (m *recordingMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []usecases.Alert
}

func (a *recordingAlerter) Alert(_ context.Context, alert usecases.Alert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
	return nil
}

func newDispatcher(t *testing.T, mailer email.Mailer, alerter usecases.Alerter) *EmailDispatcher {
	t.Helper()
	tpl, err := email.NewNotificationTemplate(markdown.NewRenderer())
	require.NoError(t, err)
	return NewEmailDispatcher(mailer, tpl, alerter, []string{" Help@FixMy.Site "}, logger.NewNop())
}

func TestEmailDispatcher_NotifyIsAsynchronous(t *testing.T) {
	mailer := newRecordingMailer()
	d := newDispatcher(t, mailer, nil)

	d.Notify(context.Background(), "jane@example.com", "Jane", "New Message in Ticket #42", "You have a **new** message.")

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was not sent")
	}

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "New Message in Ticket #42", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "<strong>new</strong>")
}

func TestEmailDispatcher_AlertsOnlyForAlertAddresses(t *testing.T) {
	alerter := &recordingAlerter{}
	d := newDispatcher(t, newRecordingMailer(), alerter)

	require.NoError(t, d.Send(context.Background(), "jane@example.com", "Jane", "Hi", "body"))
	assert.Empty(t, alerter.alerts)

	require.NoError(t, d.Send(context.Background(), "help@fixmy.site", "Support", "Ticket #4 Completed", "body"))
	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, "Email Sent", alerter.alerts[0].Title)
	assert.Equal(t, "To: help@fixmy.site\nSubject: Ticket #4 Completed", alerter.alerts[0].Message)
}

func TestEmailDispatcher_SendFailures(t *testing.T) {
	alerter := &recordingAlerter{}
	mailer := newRecordingMailer()
	mailer.err = errors.New("smtp down")
	d := newDispatcher(t, mailer, alerter)

	assert.Error(t, d.Send(context.Background(), "help@fixmy.site", "x", "s", "b"))
	assert.Empty(t, alerter.alerts)

	assert.Error(t, d.Send(context.Background(), "  ", "x", "s", "b"))
}

func TestNtfyClient_Alert(t *testing.T) {
	var (
		path, title, tags, priority, auth, body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		title = r.Header.Get("Title")
		tags = r.Header.Get("Tags")
		priority = r.Header.Get("Priority")
		auth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewNtfyClient(config.NtfyConfig{URL: srv.URL + "/", Topic: "fixmysite", Token: "tk"}, logger.NewNop())
	require.NotNil(t, client)

	err := client.Alert(context.Background(), usecases.Alert{
		Title:    "New Service Request (#7)",
		Message:  "Client: Jane",
		Tags:     []string{"ticket", "portal"},
		Priority: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "/fixmysite", path)
	assert.Equal(t, "New Service Request (#7)", title)
	assert.Equal(t, "ticket,portal", tags)
	assert.Equal(t, "3", priority)
	assert.Equal(t, "Bearer tk", auth)
	assert.Equal(t, "Client: Jane", body)
}

func TestNtfyClient_DisabledAndErrors(t *testing.T) {
	disabled := NewNtfyClient(config.NtfyConfig{}, logger.NewNop())
	assert.Nil(t, disabled)
	assert.NoError(t, disabled.Alert(context.Background(), usecases.Alert{Title: "x"}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewNtfyClient(config.NtfyConfig{URL: srv.URL, Topic: "t", User: "u", Pass: "p"}, logger.NewNop())
	assert.Error(t, client.Alert(context.Background(), usecases.Alert{Message: "x"}))
}
