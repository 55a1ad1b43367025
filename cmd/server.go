package cmd

import (
	"github.com/Daskott/addressbook/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createServerCmd())
}

func createServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start an addressbook server",
		Long: `Start the addressbook REST server on the configured port.
It runs until it receives SIGINT or SIGTERM, then shuts down gracefully.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadServerConfig()
			if err != nil {
				return err
			}

			return server.Start(config, isDevEnv)
		},
	}

	addServerConfigFlag(cmd)

	return cmd
}
