package cmd

import (
	"fmt"

	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/spf13/cobra"
)

var bitsArg int

func init() {
	rootCmd.AddCommand(createKeygenCmd())
}

func createKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA private key for 'addressbook.privateKeyPem'",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bitsArg < 2048 {
				return formattedError("invalid arg \"%v\" for \"--bits\", should be at least 2048", bitsArg)
			}

			privateKeyPem, err := key.NewRSAPrivateKeyPem(bitsArg)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), privateKeyPem)
			return nil
		},
	}

	cmd.Flags().IntVar(&bitsArg, "bits", 2048, "size of the key in bits")

	return cmd
}
