/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/Daskott/addressbook/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	isDevEnv         bool
	serverConfigFile string

	yellow       = color.New(color.FgYellow).SprintFunc()
	red          = color.New(color.FgRed).SprintFunc()
	warningLabel = yellow("Warning:")
)

// rootCmd represents the base command when called without any subcommands.
// It's created before any init() runs, so subcommands can add themselves to it
var rootCmd = createRootCmd()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "addressbook",
		Short: `addressbook is a small service for keeping track of your contacts.

It serves a REST API to list, create, update & delete contacts,
backed by an encrypted sqlite db or postgres.`,
	}

	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")

	return cmd
}

// addServerConfigFlag adds the flag for the server config file to cmd
func addServerConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "config for server (default is dev/config/server.yml in dev mode)")
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(red(format), a...)
}
