package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/deskhub/internal/interfaces/cli/client"
	"github.com/orris-inc/deskhub/internal/interfaces/cli/configcmd"
	"github.com/orris-inc/deskhub/internal/interfaces/cli/migrate"
	"github.com/orris-inc/deskhub/internal/interfaces/cli/server"
	"github.com/orris-inc/deskhub/internal/shared/version"
)

// @title Deskhub API
// @version 1.0
// @description Account and device session API for the Deskhub desktop client.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	rootCmd := &cobra.Command{
		Use:     "deskhub",
		Short:   "Deskhub - accounts and device sessions for the desktop client",
		Long:    `Deskhub serves the account API behind the desktop client and ships the tools to run it: the HTTP server, database migrations, configuration inspection and a command line client.`,
		Version: version.Current,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		configcmd.NewCommand(),
		client.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
