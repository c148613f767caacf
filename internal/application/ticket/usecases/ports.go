package usecases

import (
	"context"
	"errors"
	"time"
)

// ErrProviderUnavailable is returned by a ChatProvider that is not connected.
var ErrProviderUnavailable = errors.New("chat provider unavailable")

// Publisher fans realtime events out. Room events reach connections joined
// to one ticket; global events reach every connection. Publishing never
// blocks on slow consumers.
type Publisher interface {
	PublishToRoom(room, event string, payload any)
	PublishGlobal(event string, payload any)
}

// RoomPresence reports how many connections are joined to a room.
type RoomPresence interface {
	RoomSize(room string) int
}

// ChatProvider is the outbound side of the support chat platform. Every call
// may fail; callers log failures and carry on.
type ChatProvider interface {
	SendMessage(ctx context.Context, channelID, text string) error
	DeleteChannel(ctx context.Context, channelID string) error
	ArchiveChannel(ctx context.Context, channelID, categoryID string) error
	// WaitReady blocks until the provider session is usable or timeout
	// elapses, reporting which happened.
	WaitReady(ctx context.Context, timeout time.Duration) bool
}

// Notifier delivers an email to an offline client. Delivery is asynchronous
// and failures are only logged. body is markdown.
type Notifier interface {
	Notify(ctx context.Context, to, name, subject, body string)
}

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BridgeConfig bounds calls to the chat provider.
type BridgeConfig struct {
	ForwardTimeout    time.Duration
	ProviderTimeout   time.Duration
	ReadyTimeout      time.Duration
	ArchiveCategoryID string
}

func (c BridgeConfig) withDefaults() BridgeConfig {
	if c.ForwardTimeout <= 0 {
		c.ForwardTimeout = 10 * time.Second
	}
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = 10 * time.Second
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = 4 * time.Second
	}
	return c
}
