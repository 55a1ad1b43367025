package backup

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/Daskott/addressbook/server/gstorage"
	"github.com/Daskott/addressbook/shared"
	"github.com/Daskott/addressbook/utils"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const BACKUP_JOB_TAG = "sqliteBackup"

type ObjectStorage interface {
	UploadFile(ctx context.Context, bucket, object, filePath string) error
	DownloadFile(ctx context.Context, bucket, object, destFileName string) error
}

// SqliteBackup copies the sqlite db file to object storage on a cron schedule,
// and pulls it back down when there's no local copy.
type SqliteBackup struct {
	cronScheduler *gocron.Scheduler
	storage       ObjectStorage
	config        shared.StorageConfig
	dbFilePath    string
	checkpoint    func(context.Context) error
	logg          *zap.SugaredLogger
}

func NewCronScheduler(timeZoneArg string) *gocron.Scheduler {
	timeZone, err := time.LoadLocation(timeZoneArg)
	if err != nil {
		timeZone = time.UTC
	}

	cronScheduler := gocron.NewScheduler(timeZone)
	cronScheduler.TagsUnique()

	return cronScheduler
}

// NewSqliteBackup returns a SqliteBackup for the db in dbFilePath.
// checkpoint is called before each upload so the db file holds every committed write.
func NewSqliteBackup(
	storage ObjectStorage,
	config shared.StorageConfig,
	dbFilePath string,
	timeZone string,
	checkpoint func(context.Context) error,
	logg *zap.SugaredLogger,
) *SqliteBackup {
	return &SqliteBackup{
		cronScheduler: NewCronScheduler(timeZone),
		storage:       storage,
		config:        config,
		dbFilePath:    dbFilePath,
		checkpoint:    checkpoint,
		logg:          logg,
	}
}

// ObjectName is where the backup lives in the bucket i.e. '<prefix>/<db file name>'
func (b *SqliteBackup) ObjectName() string {
	return path.Join(b.config.Prefix, filepath.Base(b.dbFilePath))
}

// Restore downloads the latest backup if there's no local db file.
// It returns true if a backup was restored.
func (b *SqliteBackup) Restore(ctx context.Context) (bool, error) {
	exists, err := utils.FileExist(b.dbFilePath)
	if err != nil {
		return false, err
	}

	if exists {
		b.logg.Infof("Using existing sqlite db in %v", b.dbFilePath)
		return false, nil
	}

	err = b.storage.DownloadFile(ctx, b.config.Bucket, b.ObjectName(), b.dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		b.logg.Infof("No sqlite backup found in gs://%v/%v", b.config.Bucket, b.ObjectName())
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("restore sqlite backup: %v", err)
	}

	b.logg.Infof("Restored sqlite db from gs://%v/%v", b.config.Bucket, b.ObjectName())
	return true, nil
}

func (b *SqliteBackup) Backup(ctx context.Context) error {
	if b.checkpoint != nil {
		if err := b.checkpoint(ctx); err != nil {
			return fmt.Errorf("sqlite checkpoint: %v", err)
		}
	}

	err := b.storage.UploadFile(ctx, b.config.Bucket, b.ObjectName(), b.dbFilePath)
	if err != nil {
		return fmt.Errorf("upload sqlite backup: %v", err)
	}

	b.logg.Infof("Sqlite db backed up to gs://%v/%v", b.config.Bucket, b.ObjectName())
	return nil
}

// Start schedules periodic backups & starts the cron scheduler
func (b *SqliteBackup) Start() error {
	_, err := b.cronScheduler.Cron(b.config.SqliteBackupSchedule).Tag(BACKUP_JOB_TAG).Do(b.scheduledBackup)
	if err != nil {
		return fmt.Errorf("schedule sqlite backup %q: %v", b.config.SqliteBackupSchedule, err)
	}

	b.logg.Infof("Sqlite backups scheduled for '%v'", b.config.SqliteBackupSchedule)
	b.cronScheduler.StartAsync()

	return nil
}

// Stop stops the scheduler and takes one last backup
func (b *SqliteBackup) Stop(ctx context.Context) error {
	b.cronScheduler.Stop()
	return b.Backup(ctx)
}

func (b *SqliteBackup) scheduledBackup() {
	err := b.Backup(context.Background())
	if err != nil {
		b.logg.Error(err)
	}
}
