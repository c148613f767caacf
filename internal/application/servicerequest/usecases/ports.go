package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
)

type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TicketChannel describes the provider channel opened for a new request.
type TicketChannel struct {
	Request  *servicerequest.ServiceRequest
	TicketID uint
	// Phone comes from the client's account, not the request.
	Phone string
}

// ChannelOpener creates the support-side conversation for a ticket and
// returns its channel id.
type ChannelOpener interface {
	OpenTicketChannel(ctx context.Context, ch TicketChannel) (string, error)
}

// Alert is a short push notification for the support team.
type Alert struct {
	Title    string
	Message  string
	Tags     []string
	Priority int
}

type Alerter interface {
	Alert(ctx context.Context, a Alert) error
}
