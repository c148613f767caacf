// Package wipe holds the destructive maintenance commands. They run the same
// use cases as the admin HTTP routes.
package wipe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fixmysite/portal/internal/application/ticket/usecases"
	"github.com/fixmysite/portal/internal/infrastructure/config"
	"github.com/fixmysite/portal/internal/infrastructure/database"
	httpRouter "github.com/fixmysite/portal/internal/interfaces/http"
	"github.com/fixmysite/portal/internal/shared/biztime"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const (
	confirmWord = "DELETE"
	wipeTimeout = 5 * time.Minute
)

var errNotConfirmed = errors.New("aborted: confirmation not given")

var (
	env        string
	configPath string
	assumeYes  bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all tickets or all service requests",
		Long:  `Delete every ticket, or every service request with its tickets and credentials. Discord channels are removed on a best-effort basis.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "tickets",
			Short: "Delete every ticket and its messages",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, "all tickets and their messages", func(ctx context.Context, c *httpRouter.Container) (*usecases.WipeResult, error) {
					return c.Tickets().WipeTickets(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "service-requests",
			Short: "Delete every service request with its tickets and credentials",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, "all service requests, tickets, messages and credentials", func(ctx context.Context, c *httpRouter.Container) (*usecases.WipeResult, error) {
					return c.Tickets().WipeServiceRequests(ctx)
				})
			},
		},
	)

	return cmd
}

type wipeFunc func(ctx context.Context, c *httpRouter.Container) (*usecases.WipeResult, error)

func run(cmd *cobra.Command, what string, wipe wipeFunc) error {
	if !assumeYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to wipe without a terminal, pass --yes")
		}
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), what) {
			return errNotConfirmed
		}
	}

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	// Only the Discord session is needed here; Redis fan-out and the
	// scheduler stay off.
	cfg.Redis.Enabled = false
	cfg.Retention.Enabled = false

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	if err := container.StartChat(); err != nil {
		log.Warnw("discord unavailable, channels will be left behind", "error", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), wipeTimeout)
	defer cancel()

	res, err := wipe(ctx, container)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s), removed %d Discord channel(s).\n", res.Deleted, res.ChannelsDeleted)
	return nil
}

// confirm asks the operator to type the confirmation word.
func confirm(in io.Reader, out io.Writer, what string) bool {
	fmt.Fprintf(out, "This permanently deletes %s.\nType %s to continue: ", what, confirmWord)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	return strings.TrimSpace(line) == confirmWord
}
