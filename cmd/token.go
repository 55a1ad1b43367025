package cmd

import (
	"fmt"
	"time"

	"github.com/Daskott/addressbook/server/auth"
	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/spf13/cobra"
)

var (
	subjectArg string
	ttlArg     time.Duration
)

func init() {
	rootCmd.AddCommand(createTokenCmd())
}

func createTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Create an access token that can add, update & delete contacts",
		Long: `Create an access token signed with the server's private key.
Send it as a 'Bearer' token in the 'Authorization' header, when auth is enabled.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttlArg <= 0 {
				return formattedError("invalid arg %q for \"--ttl\", should be greater than 0", ttlArg)
			}

			config, err := loadServerConfig()
			if err != nil {
				return err
			}

			if config.AddressBook.PrivateKeyPem == "" {
				return formattedError("'addressbook.privateKeyPem' must be set to create tokens")
			}

			if !config.AddressBook.Auth.Enabled {
				fmt.Fprintln(cmd.ErrOrStderr(), warningLabel, "auth is disabled, the server will not check this token")
			}

			keyPair, err := key.NewKeyPairFromRSAPrivateKeyPem(config.AddressBook.PrivateKeyPem)
			if err != nil {
				return err
			}

			token, err := auth.NewAccessToken(subjectArg, ttlArg, keyPair)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subjectArg, "subject", "", "who the token is for")
	cmd.Flags().DurationVar(&ttlArg, "ttl", 24*time.Hour, "how long the token is valid for")
	cmd.MarkFlagRequired("subject")
	addServerConfigFlag(cmd)

	return cmd
}
