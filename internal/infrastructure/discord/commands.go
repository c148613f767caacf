package discord

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"gopkg.in/yaml.v3"
)

//go:embed commands.yaml
var commandsYAML []byte

// Discord JSON error codes that make a guild deploy fall back to global.
const (
	codeUnknownApplication = 10002
	codeUnknownGuild       = 10004
	codeMissingAccess      = 50001
)

type commandSpec struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Subcommands []commandSpec `yaml:"subcommands"`
	Options     []optionSpec  `yaml:"options"`
}

type optionSpec struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Type        string       `yaml:"type"`
	Required    bool         `yaml:"required"`
	Choices     []choiceSpec `yaml:"choices"`
}

type choiceSpec struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// ApplicationCommands decodes the embedded slash command catalog.
func ApplicationCommands() ([]*discordgo.ApplicationCommand, error) {
	var specs []commandSpec
	if err := yaml.Unmarshal(commandsYAML, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse command catalog: %w", err)
	}

	cmds := make([]*discordgo.ApplicationCommand, 0, len(specs))
	for _, s := range specs {
		cmd := &discordgo.ApplicationCommand{
			Name:        s.Name,
			Description: s.Description,
			Type:        discordgo.ChatApplicationCommand,
		}
		for _, sub := range s.Subcommands {
			opts, err := convertOptions(sub.Options)
			if err != nil {
				return nil, fmt.Errorf("command %s %s: %w", s.Name, sub.Name, err)
			}
			cmd.Options = append(cmd.Options, &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        sub.Name,
				Description: sub.Description,
				Options:     opts,
			})
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func convertOptions(specs []optionSpec) ([]*discordgo.ApplicationCommandOption, error) {
	var opts []*discordgo.ApplicationCommandOption
	for _, o := range specs {
		opt := &discordgo.ApplicationCommandOption{
			Name:        o.Name,
			Description: o.Description,
			Required:    o.Required,
		}
		switch o.Type {
		case "string":
			opt.Type = discordgo.ApplicationCommandOptionString
		case "integer":
			opt.Type = discordgo.ApplicationCommandOptionInteger
		default:
			return nil, fmt.Errorf("unsupported option type %q", o.Type)
		}
		for _, c := range o.Choices {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value})
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// DeployResult says where the commands ended up.
type DeployResult struct {
	ApplicationID string
	GuildID       string
	Count         int
	// Global is set when a guild deploy fell back to global scope.
	Global bool
}

// DeployCommands overwrites the bot's slash commands in the configured
// guild, or globally when no guild is set or the guild is inaccessible.
// An unknown application id is corrected from the token once.
func (a *Adapter) DeployCommands(ctx context.Context) (*DeployResult, error) {
	cmds, err := ApplicationCommands()
	if err != nil {
		return nil, err
	}

	appID := a.appID
	if appID == "" {
		if appID, err = a.resolveApplicationID(ctx); err != nil {
			return nil, err
		}
	}

	res, err := a.deploy(ctx, appID, a.cfg.GuildID, cmds)
	if err == nil {
		return res, nil
	}

	if restCode(err) == codeUnknownApplication {
		a.logger.Warnw("unknown application id, resolving from bot token", "application_id", appID)
		discovered, rerr := a.resolveApplicationID(ctx)
		if rerr != nil {
			return nil, rerr
		}
		if discovered != appID {
			a.logger.Warnw("configured application id does not match the bot token",
				"configured", appID,
				"discovered", discovered,
			)
			appID = discovered
			res, err = a.deploy(ctx, appID, a.cfg.GuildID, cmds)
			if err == nil {
				return res, nil
			}
		}
	}

	if a.cfg.GuildID != "" && isGuildAccessError(err) {
		a.logger.Warnw("missing access to guild, deploying commands globally", "guild_id", a.cfg.GuildID)
		res, gerr := a.deploy(ctx, appID, "", cmds)
		if gerr != nil {
			return nil, gerr
		}
		res.Global = true
		return res, nil
	}
	return nil, err
}

func (a *Adapter) deploy(ctx context.Context, appID, guildID string, cmds []*discordgo.ApplicationCommand) (*DeployResult, error) {
	scope := "global scope"
	if guildID != "" {
		scope = "guild " + guildID
	}
	a.logger.Infow("deploying application commands", "count", len(cmds), "scope", scope)

	out, err := a.rest.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to deploy commands to %s: %w", scope, err)
	}
	return &DeployResult{ApplicationID: appID, GuildID: guildID, Count: len(out)}, nil
}

func (a *Adapter) resolveApplicationID(ctx context.Context) (string, error) {
	app, err := a.rest.Application("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to resolve application from token: %w", err)
	}
	return app.ID, nil
}

func restCode(err error) int {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code
	}
	return 0
}

func isGuildAccessError(err error) bool {
	code := restCode(err)
	return code == codeMissingAccess || code == codeUnknownGuild
}
