package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() ServerConfig {
	return ServerConfig{
		AddressBook: AddressBookConfig{
			Cron:     CronConfig{TimeZone: "UTC"},
			Listener: ListenerConfig{Port: 3000},
		},
		Database: DatabaseConfig{
			Driver: SQLITE_DRIVER,
			Sqlite: SqliteConfig{PassPhrase: "passphrase"},
		},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		description string
		modify      func(*ServerConfig)
		expectedErr string
	}{
		{
			description: "Should accept a valid sqlite config",
			modify:      func(*ServerConfig) {},
		},
		{
			description: "Should reject an unknown driver",
			modify:      func(c *ServerConfig) { c.Database.Driver = "mysql" },
			expectedErr: "Driver",
		},
		{
			description: "Should require a passphrase for sqlite",
			modify:      func(c *ServerConfig) { c.Database.Sqlite.PassPhrase = "" },
			expectedErr: "passPhrase",
		},
		{
			description: "Should require a dsn for postgres",
			modify:      func(c *ServerConfig) { c.Database.Driver = POSTGRES_DRIVER },
			expectedErr: "dsn",
		},
		{
			description: "Should accept the memory driver without settings",
			modify: func(c *ServerConfig) {
				c.Database = DatabaseConfig{Driver: MEMORY_DRIVER}
			},
		},
		{
			description: "Should reject an out of range port",
			modify:      func(c *ServerConfig) { c.AddressBook.Listener.Port = 70000 },
			expectedErr: "Port",
		},
		{
			description: "Should require a private key when auth is enabled",
			modify:      func(c *ServerConfig) { c.AddressBook.Auth.Enabled = true },
			expectedErr: "privateKeyPem",
		},
		{
			description: "Should require storage settings when backups are enabled",
			modify:      func(c *ServerConfig) { c.Google.Storage.EnableSqliteBackupAndSync = true },
			expectedErr: "Bucket",
		},
		{
			description: "Should reject backups for non sqlite drivers",
			modify: func(c *ServerConfig) {
				c.Database = DatabaseConfig{Driver: MEMORY_DRIVER}
				c.Google.Storage = StorageConfig{
					Bucket:                    "addressbook",
					Prefix:                    "dev",
					SqliteBackupSchedule:      "*/30 * * * *",
					EnableSqliteBackupAndSync: true,
				}
			},
			expectedErr: "requires the sqlite driver",
		},
		{
			description: "Should reject an unknown log mode",
			modify:      func(c *ServerConfig) { c.Log.Mode = "verbose" },
			expectedErr: "Mode",
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			config := validConfig()
			c.modify(&config)

			err := config.Validate()
			if c.expectedErr == "" {
				assert.Nil(t, err)
				return
			}

			if assert.NotNil(t, err) {
				assert.Contains(t, err.Error(), c.expectedErr)
			}
		})
	}
}
