// Package discord is the chat provider adapter: ticket channels, message
// relay in both directions and the support team's slash commands.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/shared/config"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const (
	defaultReadyTimeout = 4 * time.Second
	eventTimeout        = 30 * time.Second
)

// restClient is the subset of *discordgo.Session the adapter calls.
type restClient interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Application(appID string, options ...discordgo.RequestOption) (*discordgo.Application, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

type Adapter struct {
	session *discordgo.Session
	rest    restClient
	cfg     config.DiscordConfig
	logger  logger.Interface

	relay    MessageRelay
	commands CommandDispatcher

	ready     chan struct{}
	readyOnce sync.Once
	appID     string
}

// NewAdapter prepares a bot session. Nothing connects until Open.
func NewAdapter(cfg config.DiscordConfig, log logger.Interface) (*Adapter, error) {
	if !cfg.Enabled() {
		return nil, errors.New("discord bot token is not configured")
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	a := newAdapter(session, cfg, log)
	a.session = session
	session.AddHandler(a.onReady)
	return a, nil
}

func newAdapter(rest restClient, cfg config.DiscordConfig, log logger.Interface) *Adapter {
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = defaultReadyTimeout
	}
	return &Adapter{
		rest:   rest,
		cfg:    cfg,
		logger: log,
		ready:  make(chan struct{}),
		appID:  cfg.ApplicationID,
	}
}

// Open connects to the gateway. Ready is signalled asynchronously.
func (a *Adapter) Open() error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	a.logger.Infow("discord gateway connecting")
	return nil
}

func (a *Adapter) Close() error {
	if a.session == nil {
		return nil
	}
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("failed to close discord session: %w", err)
	}
	a.logger.Infow("discord session closed")
	return nil
}

func (a *Adapter) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if a.appID == "" && r.User != nil {
		a.appID = r.User.ID
	}
	user := ""
	if r.User != nil {
		user = r.User.Username
	}
	a.logger.Infow("discord bot is ready", "user", user, "guilds", len(r.Guilds))
	a.markReady()
}

func (a *Adapter) markReady() {
	a.readyOnce.Do(func() { close(a.ready) })
}

func (a *Adapter) isReady() bool {
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

// Ready reports whether the gateway has signalled Ready.
func (a *Adapter) Ready() bool {
	return a.isReady()
}

// ReadyTimeout is how long bulk operations wait for the gateway.
func (a *Adapter) ReadyTimeout() time.Duration {
	return a.cfg.ReadyTimeout
}

func (a *Adapter) WaitReady(ctx context.Context, timeout time.Duration) bool {
	if a == nil {
		return false
	}
	if timeout <= 0 {
		timeout = a.cfg.ReadyTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-a.ready:
		return true
	case <-timer.C:
		a.logger.Warnw("discord not ready, proceeding without it", "timeout", timeout.String())
		return false
	case <-ctx.Done():
		return false
	}
}

func (a *Adapter) SendMessage(ctx context.Context, channelID, text string) error {
	if !a.isReady() {
		return usecases.ErrProviderUnavailable
	}
	if _, err := a.rest.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}

func (a *Adapter) DeleteChannel(ctx context.Context, channelID string) error {
	if !a.isReady() {
		return usecases.ErrProviderUnavailable
	}
	if _, err := a.rest.ChannelDelete(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete discord channel: %w", err)
	}
	return nil
}

// ArchiveChannel moves the channel under categoryID.
func (a *Adapter) ArchiveChannel(ctx context.Context, channelID, categoryID string) error {
	if !a.isReady() {
		return usecases.ErrProviderUnavailable
	}
	_, err := a.rest.ChannelEdit(channelID, &discordgo.ChannelEdit{ParentID: categoryID}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to archive discord channel: %w", err)
	}
	return nil
}

var _ usecases.ChatProvider = (*Adapter)(nil)
