package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/berth/internal/interfaces/cli/migrate"
	"github.com/orris-inc/berth/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "berth",
		Short: "Berth - port allocation service",
		Long:  `Berth manages a pool of service ports and assigns them to paid subscriptions, with a transactional allocation engine and an append-only audit log.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
