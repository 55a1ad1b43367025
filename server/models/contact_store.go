package models

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var updatableFields = []string{
	"first_name",
	"last_name",
	"has_address",
	"address_country",
	"address_state",
	"address_city",
	"address_address",
	"address_postal_code",
}

// ContactStore persists contacts with gorm.
type ContactStore struct {
	db *gorm.DB
}

func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (store *ContactStore) FindAll(ctx context.Context) ([]Contact, error) {
	records := []contactRecord{}

	err := store.db.WithContext(ctx).Order("id asc").Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "find all contacts")
	}

	contacts := make([]Contact, 0, len(records))
	for i := range records {
		contacts = append(contacts, *records[i].contact())
	}

	return contacts, nil
}

func (store *ContactStore) FindByID(ctx context.Context, id uint) (*Contact, error) {
	record := contactRecord{}

	err := store.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}

	if err != nil {
		return nil, errors.Wrapf(err, "find contact %v", id)
	}

	return record.contact(), nil
}

// Save inserts the contact when it has no id, otherwise it overwrites the
// stored row (inserting it if the row no longer exists).
func (store *ContactStore) Save(ctx context.Context, contact *Contact) (*Contact, error) {
	record := newContactRecord(contact)
	db := store.db.WithContext(ctx)

	if record.ID != 0 {
		res := db.Model(&contactRecord{BaseModel: BaseModel{ID: record.ID}}).
			Select(updatableFields).Updates(record)
		if res.Error != nil {
			return nil, errors.Wrapf(res.Error, "update contact %v", record.ID)
		}

		if res.RowsAffected > 0 {
			return record.contact(), nil
		}
	}

	if err := db.Create(record).Error; err != nil {
		return nil, errors.Wrap(err, "create contact")
	}

	return record.contact(), nil
}

func (store *ContactStore) DeleteByID(ctx context.Context, id uint) error {
	err := store.db.WithContext(ctx).Delete(&contactRecord{}, id).Error
	if err != nil {
		return errors.Wrapf(err, "delete contact %v", id)
	}

	return nil
}

// Ping checks that the underlying database is reachable
func (store *ContactStore) Ping(ctx context.Context) error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
