package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	requestusecases "github.com/fixmysite/portal/internal/application/servicerequest/usecases"
	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
)

const (
	embedColor         = 0x2563EB
	maxEmbedFieldValue = 1024
)

// OpenTicketChannel creates ticket-{serviceRequestId} in the guild, pings the
// configured role or user and posts the request summary.
func (a *Adapter) OpenTicketChannel(ctx context.Context, ch requestusecases.TicketChannel) (string, error) {
	if a.cfg.GuildID == "" {
		return "", errors.New("discord guild id is not configured")
	}
	if !a.WaitReady(ctx, a.cfg.ReadyTimeout) {
		return "", usecases.ErrProviderUnavailable
	}

	sr := ch.Request
	channel, err := a.rest.GuildChannelCreateComplex(a.cfg.GuildID, discordgo.GuildChannelCreateData{
		Name: fmt.Sprintf("ticket-%d", sr.ID()),
		Type: discordgo.ChannelTypeGuildText,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create discord channel: %w", err)
	}

	if ping := a.pingContent(); ping != "" {
		if _, err := a.rest.ChannelMessageSend(channel.ID, ping, discordgo.WithContext(ctx)); err != nil {
			a.logger.Warnw("failed to ping support in ticket channel", "channel_id", channel.ID, "error", err)
		}
	}

	if _, err := a.rest.ChannelMessageSendEmbed(channel.ID, requestEmbed(sr, ch.Phone), discordgo.WithContext(ctx)); err != nil {
		a.logger.Warnw("failed to post request summary", "channel_id", channel.ID, "error", err)
	}

	a.logger.Infow("discord ticket channel created",
		"channel_id", channel.ID,
		"service_request_id", sr.ID(),
		"ticket_id", ch.TicketID,
	)
	return channel.ID, nil
}

func (a *Adapter) pingContent() string {
	switch {
	case a.cfg.NotifyRoleID != "":
		return fmt.Sprintf("<@&%s>", a.cfg.NotifyRoleID)
	case a.cfg.NotifyUserID != "":
		return fmt.Sprintf("<@%s>", a.cfg.NotifyUserID)
	default:
		return ""
	}
}

func requestEmbed(sr *servicerequest.ServiceRequest, phone string) *discordgo.MessageEmbed {
	var fields []*discordgo.MessageEmbedField
	add := func(name, value string, inline bool) {
		if strings.TrimSpace(value) == "" {
			return
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  clip(value, maxEmbedFieldValue),
			Inline: inline,
		})
	}

	add("Client Name", sr.ClientName(), true)
	add("Client Email", sr.ClientEmail(), true)
	add("Phone", phone, true)
	add("Website URL", sr.WebsiteURL(), true)
	add("Service Type", sr.ServiceType(), true)
	add("Platform", sr.PlatformType(), true)
	add("Urgency", sr.UrgencyLevel(), true)
	if q := sr.EstimatedQuote(); q != nil {
		add("Estimated Quote", fmt.Sprintf("%.2f", *q), true)
	}
	add("Problem Description", sr.ProblemDescription(), false)

	var features []string
	for _, f := range sr.AdditionalFeatures() {
		if f.Name == "" || f.Price == 0 {
			continue
		}
		features = append(features, fmt.Sprintf("• %s (+%.2f)", f.Name, f.Price))
	}
	add("Additional Features", strings.Join(features, "\n"), false)

	if len(fields) == 0 {
		fields = []*discordgo.MessageEmbedField{{Name: "Details", Value: "N/A"}}
	}

	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("New Service Request — Ticket #%d", sr.ID()),
		Color:     embedColor,
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var _ requestusecases.ChannelOpener = (*Adapter)(nil)
