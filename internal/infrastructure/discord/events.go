package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/fixmysite/portal/internal/application/chatops"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/domain/chatcommand"
)

const (
	supportDisplayName   = "FixMy.Site Support"
	replyUnknownCommand  = "Unknown command."
	noticeTicketClosed   = "This ticket is closed. Your message was not delivered to the client."
	maxInteractionLength = 2000
)

// MessageRelay takes messages posted by the support team in ticket channels.
type MessageRelay interface {
	RelayProviderMessage(ctx context.Context, cmd usecases.RelayProviderMessageCommand) (*usecases.RelayProviderMessageResult, error)
}

type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd chatcommand.Command) chatops.Reply
}

// Bind wires inbound gateway events to the application. It must be called
// before Open.
func (a *Adapter) Bind(relay MessageRelay, commands CommandDispatcher) {
	a.relay = relay
	a.commands = commands
	if a.session == nil {
		return
	}
	a.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		a.handleMessage(ctx, m.Message)
	})
	a.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		a.handleInteraction(ctx, i.Interaction)
	})
}

func (a *Adapter) handleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || a.relay == nil {
		return
	}
	isBot := m.Author != nil && m.Author.Bot

	res, err := a.relay.RelayProviderMessage(ctx, usecases.RelayProviderMessageCommand{
		ChannelID:         m.ChannelID,
		AuthorDisplayName: supportDisplayName,
		IsBot:             isBot,
		Body:              m.Content,
	})
	if err != nil {
		a.logger.Errorw("failed to relay discord message", "channel_id", m.ChannelID, "message_id", m.ID, "error", err)
		return
	}
	switch res.Outcome {
	case usecases.RelayDelivered:
		a.logger.Debugw("discord message relayed", "channel_id", m.ChannelID, "notified", res.Notified)
	case usecases.RelayTicketClosed:
		if _, err := a.rest.ChannelMessageSend(m.ChannelID, noticeTicketClosed, discordgo.WithContext(ctx)); err != nil {
			a.logger.Warnw("failed to post closed-ticket notice", "channel_id", m.ChannelID, "error", err)
		}
	}
}

func (a *Adapter) handleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand || a.commands == nil {
		return
	}

	cmd, err := ParseInteraction(i)
	if err != nil {
		a.logger.Warnw("unsupported interaction", "error", err)
		a.respond(ctx, i, chatops.Reply{Content: replyUnknownCommand, Ephemeral: true})
		return
	}

	if !chatops.NeedsDeferral(cmd) {
		a.respond(ctx, i, a.commands.Dispatch(ctx, cmd))
		return
	}

	err = a.rest.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		a.logger.Errorw("failed to defer interaction", "command", chatcommand.Name(cmd), "error", err)
		return
	}

	reply := a.commands.Dispatch(ctx, cmd)
	content := clip(reply.Content, maxInteractionLength)
	// The channel may be gone after a delete, so the edit is best effort.
	if _, err := a.rest.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}, discordgo.WithContext(ctx)); err != nil {
		a.logger.Debugw("failed to edit deferred reply", "command", chatcommand.Name(cmd), "error", err)
	}
}

func (a *Adapter) respond(ctx context.Context, i *discordgo.Interaction, reply chatops.Reply) {
	data := &discordgo.InteractionResponseData{Content: clip(reply.Content, maxInteractionLength)}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := a.rest.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		a.logger.Errorw("failed to reply to interaction", "error", err)
	}
}
