// Package notification delivers support alerts and client emails.
package notification

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	"github.com/fixmysite/portal/internal/shared/config"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const (
	ntfyTimeout     = 10 * time.Second
	maxNtfyTitleLen = 200
)

// NtfyClient publishes push alerts to an ntfy topic.
type NtfyClient struct {
	client *resty.Client
	topic  string
	logger logger.Interface
}

// NewNtfyClient returns nil when ntfy is not configured. A nil client
// accepts alerts and drops them.
func NewNtfyClient(cfg config.NtfyConfig, log logger.Interface) *NtfyClient {
	if !cfg.Enabled() {
		return nil
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(ntfyTimeout).
		SetHeader("Content-Type", "text/plain; charset=utf-8")

	switch {
	case cfg.Token != "":
		client.SetAuthToken(cfg.Token)
	case cfg.User != "" && cfg.Pass != "":
		client.SetBasicAuth(cfg.User, cfg.Pass)
	}

	return &NtfyClient{client: client, topic: cfg.Topic, logger: log}
}

func (n *NtfyClient) Alert(ctx context.Context, a usecases.Alert) error {
	if n == nil {
		return nil
	}

	req := n.client.R().
		SetContext(ctx).
		SetBody(a.Message)
	if a.Title != "" {
		req.SetHeader("Title", truncate(a.Title, maxNtfyTitleLen))
	}
	if len(a.Tags) > 0 {
		req.SetHeader("Tags", strings.Join(a.Tags, ","))
	}
	if a.Priority > 0 {
		req.SetHeader("Priority", strconv.Itoa(a.Priority))
	}

	resp, err := req.Post("/" + url.PathEscape(n.topic))
	if err != nil {
		return fmt.Errorf("failed to publish ntfy alert: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ntfy rejected alert: status %d", resp.StatusCode())
	}

	n.logger.Debugw("ntfy alert sent", "title", a.Title)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var _ usecases.Alerter = (*NtfyClient)(nil)
