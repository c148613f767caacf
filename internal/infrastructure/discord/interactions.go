package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/fixmysite/portal/internal/domain/chatcommand"
)

// ParseInteraction decodes a slash command interaction into a command.
func ParseInteraction(i *discordgo.Interaction) (chatcommand.Command, error) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return nil, fmt.Errorf("not a slash command interaction")
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return nil, fmt.Errorf("command %s has no subcommand", data.Name)
	}
	sub := data.Options[0]
	opts := optionMap(sub.Options)
	channel := i.ChannelID

	switch data.Name + " " + sub.Name {
	case "ticket close":
		return chatcommand.NewClose(channel), nil
	case "ticket status":
		return chatcommand.NewSetStatus(channel, opts.stringValue("status")), nil
	case "ticket delete":
		return chatcommand.NewDelete(channel, opts.stringValue("confirm")), nil
	case "credential add":
		return chatcommand.NewAddCredential(channel, opts.stringValue("for"), opts.stringValue("text")), nil
	case "credential list":
		return chatcommand.NewListCredentials(channel), nil
	case "credential reveal":
		return chatcommand.NewRevealCredential(channel, opts.uintValue("id")), nil
	case "requests list":
		return chatcommand.NewListRequests(channel, opts.stringValue("status")), nil
	case "requests view":
		return chatcommand.NewViewRequest(channel, opts.uintValue("id")), nil
	case "requests update":
		return chatcommand.NewUpdateRequest(channel, opts.uintValue("id"), opts.stringValue("status")), nil
	default:
		return nil, fmt.Errorf("unknown command %s %s", data.Name, sub.Name)
	}
}

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (o options) stringValue(name string) string {
	if opt, ok := o[name]; ok {
		if s, ok := opt.Value.(string); ok {
			return s
		}
	}
	return ""
}

// uintValue reads an integer option. Discord sends numbers as float64 in JSON.
func (o options) uintValue(name string) uint {
	opt, ok := o[name]
	if !ok {
		return 0
	}
	switch v := opt.Value.(type) {
	case float64:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}
