package cmd

import (
	"fmt"

	"github.com/Daskott/addressbook/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createMigrateCmd())
}

func createMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the contacts table in the configured database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadServerConfig()
			if err != nil {
				return err
			}

			err = server.Migrate(config, isDevEnv)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%v database migrated\n", config.Database.Driver)
			return nil
		},
	}

	addServerConfigFlag(cmd)

	return cmd
}
