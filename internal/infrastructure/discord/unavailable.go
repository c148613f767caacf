package discord

import (
	"context"
	"time"

	requestusecases "github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
)

// Unavailable stands in for the adapter when no bot token is configured.
// Every call fails with ErrProviderUnavailable and the bridge degrades to
// web-only tickets.
type Unavailable struct{}

func (Unavailable) SendMessage(context.Context, string, string) error {
	return usecases.ErrProviderUnavailable
}

func (Unavailable) DeleteChannel(context.Context, string) error {
	return usecases.ErrProviderUnavailable
}

func (Unavailable) ArchiveChannel(context.Context, string, string) error {
	return usecases.ErrProviderUnavailable
}

func (Unavailable) WaitReady(context.Context, time.Duration) bool {
	return false
}

func (Unavailable) OpenTicketChannel(context.Context, requestusecases.TicketChannel) (string, error) {
	return "", usecases.ErrProviderUnavailable
}

var (
	_ usecases.ChatProvider         = Unavailable{}
	_ requestusecases.ChannelOpener = Unavailable{}
)
