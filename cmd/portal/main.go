//	@title						FixMy.Site Portal API
//	@version					1.0
//	@description				Service requests, ticket messaging and stored credentials for FixMy.Site clients.
//	@BasePath					/
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fixmysite/portal/internal/interfaces/cli/deploycommands"
	"github.com/fixmysite/portal/internal/interfaces/cli/migrate"
	"github.com/fixmysite/portal/internal/interfaces/cli/server"
	"github.com/fixmysite/portal/internal/interfaces/cli/wipe"
	"github.com/fixmysite/portal/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "portal",
		Short:        "FixMy.Site client portal backend",
		Long:         `The portal serves service-request intake, ticket messaging over websockets and the Discord bridge used by the support team.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		wipe.NewCommand(),
		deploycommands.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
