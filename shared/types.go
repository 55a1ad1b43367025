package shared

import (
	"fmt"

	"github.com/go-playground/validator"
)

const (
	SQLITE_DRIVER   = "sqlite"
	POSTGRES_DRIVER = "postgres"
	MEMORY_DRIVER   = "memory"
)

var validate = validator.New()

type ServerConfig struct {
	AddressBook AddressBookConfig `mapstructure:"addressbook" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Log         LogConfig         `mapstructure:"log"`
	Google      GoogleConfig      `mapstructure:"google"`
}

type AddressBookConfig struct {
	PrivateKeyPem string         `mapstructure:"privateKeyPem"`
	Auth          AuthConfig     `mapstructure:"auth"`
	Cron          CronConfig     `mapstructure:"cron" validate:"required"`
	Listener      ListenerConfig `mapstructure:"listener" validate:"required"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type CronConfig struct {
	TimeZone string `mapstructure:"timeZone" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver" validate:"required,oneof=sqlite postgres memory"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
	Dir        string `mapstructure:"dir"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=development production"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket                    string `mapstructure:"bucket" validate:"required_with=EnableSqliteBackupAndSync"`
	Prefix                    string `mapstructure:"prefix" validate:"required_with=EnableSqliteBackupAndSync"`
	SqliteBackupSchedule      string `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackupAndSync"`
	EnableSqliteBackupAndSync bool   `mapstructure:"enableSqliteBackupAndSync"`
}

// Validate checks the struct tags, then the rules that depend on more than one field
func (config *ServerConfig) Validate() error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	switch config.Database.Driver {
	case SQLITE_DRIVER:
		if config.Database.Sqlite.PassPhrase == "" {
			return fmt.Errorf("'database.sqlite.passPhrase' is required for the %v driver", SQLITE_DRIVER)
		}
	case POSTGRES_DRIVER:
		if config.Database.Postgres.DSN == "" {
			return fmt.Errorf("'database.postgres.dsn' is required for the %v driver", POSTGRES_DRIVER)
		}
	}

	if config.AddressBook.Auth.Enabled && config.AddressBook.PrivateKeyPem == "" {
		return fmt.Errorf("'addressbook.privateKeyPem' is required when auth is enabled")
	}

	if config.Google.Storage.EnableSqliteBackupAndSync && config.Database.Driver != SQLITE_DRIVER {
		return fmt.Errorf("sqlite backup & sync requires the %v driver", SQLITE_DRIVER)
	}

	return nil
}
