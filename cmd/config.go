package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	devConfig "github.com/Daskott/addressbook/dev/config"
	"github.com/Daskott/addressbook/shared"
	"github.com/Daskott/addressbook/utils"
	"github.com/spf13/viper"
)

// loadServerConfig reads the server config file & ENV variables into a validated ServerConfig.
// ENV variables override the file, e.g. DATABASE_SQLITE_PASSPHRASE for 'database.sqlite.passPhrase'
func loadServerConfig() (*shared.ServerConfig, error) {
	config := viper.New()
	setServerConfigDefaults(config)

	if isDevEnv && serverConfigFile == "" {
		configFilePath, err := devConfigFilePath()
		if err != nil {
			return nil, err
		}
		serverConfigFile = configFilePath
	}

	if serverConfigFile == "" {
		return nil, formattedError("no server config provided, use the --sconfig flag or run in --dev mode")
	}

	config.SetConfigFile(serverConfigFile)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv() // read in environment variables that match

	if err := config.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading server config file: %v", err)
	}

	serverConfig := &shared.ServerConfig{}
	if err := config.Unmarshal(serverConfig); err != nil {
		return nil, fmt.Errorf("unable to decode server config: %v", err)
	}

	if err := serverConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config %v: %v", config.ConfigFileUsed(), err)
	}

	return serverConfig, nil
}

func setServerConfigDefaults(config *viper.Viper) {
	config.SetDefault("addressbook.listener.port", 3000)
	config.SetDefault("addressbook.auth.enabled", false)
	config.SetDefault("addressbook.cron.timeZone", "UTC")
	config.SetDefault("database.driver", shared.SQLITE_DRIVER)
	config.SetDefault("log.mode", "development")
	config.SetDefault("google.storage.enableSqliteBackupAndSync", false)
}

// devConfigFilePath returns the path to the dev server config,
// creating it from devConfig.SERVER_YML if it's not there yet
func devConfigFilePath() (string, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(rootDir, "dev", "config")
	configFilePath := filepath.Join(configDir, "server.yml")

	exists, err := utils.FileExist(configFilePath)
	if err != nil {
		return "", err
	}

	if !exists {
		if err := utils.CreateDirIfNotExist(configDir); err != nil {
			return "", err
		}

		if err := os.WriteFile(configFilePath, []byte(devConfig.SERVER_YML), 0600); err != nil {
			return "", err
		}
	}

	return configFilePath, nil
}
