package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daskott/addressbook/server/auth/key"
	"github.com/Daskott/addressbook/server/backup"
	"github.com/Daskott/addressbook/server/directory"
	"github.com/Daskott/addressbook/server/gstorage"
	"github.com/Daskott/addressbook/server/logger"
	"github.com/Daskott/addressbook/server/models"
	"github.com/Daskott/addressbook/shared"
	"github.com/VictoriaMetrics/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contactStore interface {
	directory.Store
	HealthChecker
}

// Start wires the store, contact directory & router together, then serves
// until the process receives SIGINT or SIGTERM
func Start(config *shared.ServerConfig, devMode bool) error {
	logg := logger.NewLogger(config.Log.Mode)
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, sqliteBackup, closeDB, err := openStore(ctx, config, devMode, logg)
	if err != nil {
		return err
	}

	var keyPair *key.KeyPair
	if config.AddressBook.Auth.Enabled {
		keyPair, err = key.NewKeyPairFromRSAPrivateKeyPem(config.AddressBook.PrivateKeyPem)
		if err != nil {
			return err
		}
	}

	router, err := NewRouter(RouterDependencies{
		Contacts: directory.NewService(store, logg),
		Health:   store,
		Metrics:  metrics.NewSet(),
		KeyPair:  keyPair,
		Logg:     logg,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%v", config.AddressBook.Listener.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	if sqliteBackup != nil {
		if err := sqliteBackup.Start(); err != nil {
			return err
		}
	}

	go serve(server, logg)

	<-ctx.Done()
	cleanup(server, sqliteBackup, closeDB, logg)

	return nil
}

// Migrate brings the db schema up to date
func Migrate(config *shared.ServerConfig, devMode bool) error {
	if config.Database.Driver == shared.MEMORY_DRIVER {
		return nil
	}

	db, err := openDatabase(config, devMode)
	if err != nil {
		return err
	}

	err = models.AutoMigrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openStore(
	ctx context.Context,
	config *shared.ServerConfig,
	devMode bool,
	logg *zap.SugaredLogger,
) (contactStore, *backup.SqliteBackup, func() error, error) {
	if config.Database.Driver == shared.MEMORY_DRIVER {
		logg.Warn("Using in-memory contact store, contacts will be lost on shutdown")
		return directory.NewMemoryStore(), nil, nil, nil
	}

	var db *gorm.DB
	var sqliteBackup *backup.SqliteBackup
	storageConfig := config.Google.Storage

	if storageConfig.EnableSqliteBackupAndSync {
		dbFilePath, err := sqliteDBFilePath(config, devMode)
		if err != nil {
			return nil, nil, nil, err
		}

		// The client outlives ctx, which is cancelled on SIGINT/SIGTERM before the final backup runs
		gStorage, err := gstorage.NewGStorage(context.Background(), config.Google.ApplicationCredentials)
		if err != nil {
			return nil, nil, nil, err
		}

		checkpoint := func(ctx context.Context) error { return models.CheckpointSqliteDB(ctx, db) }
		sqliteBackup = backup.NewSqliteBackup(
			gStorage, storageConfig, dbFilePath, config.AddressBook.Cron.TimeZone, checkpoint, logg)

		// Pull the last backup down before the db is opened, so sqlite doesn't create an empty one
		if _, err := sqliteBackup.Restore(ctx); err != nil {
			return nil, nil, nil, err
		}
	}

	db, err := openDatabase(config, devMode)
	if err != nil {
		return nil, nil, nil, err
	}

	err = models.AutoMigrate(db)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, err
	}

	return models.NewContactStore(db), sqliteBackup, sqlDB.Close, nil
}

func openDatabase(config *shared.ServerConfig, devMode bool) (*gorm.DB, error) {
	switch config.Database.Driver {
	case shared.POSTGRES_DRIVER:
		return models.OpenPostgresDB(config.Database.Postgres.DSN)

	case shared.SQLITE_DRIVER:
		rootDir, err := sqliteRootDir(config, devMode)
		if err != nil {
			return nil, err
		}
		return models.OpenSqliteDB(config.Database.Sqlite.PassPhrase, rootDir)

	default:
		return nil, fmt.Errorf("unsupported database driver '%v'", config.Database.Driver)
	}
}

func sqliteDBFilePath(config *shared.ServerConfig, devMode bool) (string, error) {
	rootDir, err := sqliteRootDir(config, devMode)
	if err != nil {
		return "", err
	}

	return models.SqliteDBFilePath(rootDir)
}

func sqliteRootDir(config *shared.ServerConfig, devMode bool) (string, error) {
	if config.Database.Sqlite.Dir != "" {
		return config.Database.Sqlite.Dir, nil
	}

	return configDirectory(devMode)
}
