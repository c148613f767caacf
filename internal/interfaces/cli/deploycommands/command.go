package deploycommands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fixmysite/portal/internal/infrastructure/config"
	"github.com/fixmysite/portal/internal/infrastructure/discord"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const deployTimeout = 30 * time.Second

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy-commands",
		Short: "Register the bot's slash commands with Discord",
		Long: `Bulk-overwrite the /ticket, /credential and /requests commands. Commands go to
discord.guild_id when it is set and reachable, otherwise they are registered globally.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	adapter, err := discord.NewAdapter(cfg.Discord, logger.WithComponent("discord"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), deployTimeout)
	defer cancel()

	res, err := adapter.DeployCommands(ctx)
	if err != nil {
		return err
	}

	scope := "globally"
	if res.GuildID != "" {
		scope = "to guild " + res.GuildID
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deployed %d command(s) %s for application %s.\n", res.Count, scope, res.ApplicationID)
	if res.Global && cfg.Discord.GuildID != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "The bot cannot reach the configured guild; global commands may take up to an hour to appear.")
	}
	return nil
}
