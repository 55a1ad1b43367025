package directory

import (
	"context"

	"github.com/Daskott/addressbook/server/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Delete when no contact matches the given id.
var ErrNotFound = models.ErrContactNotFound

// Store is the persistence port used by Service.
// FindByID must return models.ErrContactNotFound for an unknown id.
type Store interface {
	FindAll(ctx context.Context) ([]models.Contact, error)
	FindByID(ctx context.Context, id uint) (*models.Contact, error)
	Save(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	DeleteByID(ctx context.Context, id uint) error
}

// Service holds the contact directory business logic.
type Service struct {
	store Store
	logg  *zap.SugaredLogger
}

func NewService(store Store, logg *zap.SugaredLogger) *Service {
	return &Service{store: store, logg: logg}
}

func (s *Service) List(ctx context.Context) ([]models.Contact, error) {
	return s.store.FindAll(ctx)
}

// Get returns nil, with no error, when the contact does not exist.
func (s *Service) Get(ctx context.Context, id uint) (*models.Contact, error) {
	contact, err := s.store.FindByID(ctx, id)
	if errors.Is(err, models.ErrContactNotFound) {
		return nil, nil
	}

	return contact, err
}

// Create stores a new contact. Any id set by the caller is ignored.
func (s *Service) Create(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	contact.ID = 0

	created, err := s.store.Save(ctx, &contact)
	if err != nil {
		return nil, err
	}

	s.logg.Debugf("contact %v created", created.ID)
	return created, nil
}

// Update merges patch into the stored contact and returns the result.
// It returns nil, with no error, when the contact does not exist.
func (s *Service) Update(ctx context.Context, id uint, patch models.Contact) (*models.Contact, error) {
	existing, err := s.store.FindByID(ctx, id)
	if errors.Is(err, models.ErrContactNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	mergeContact(existing, &patch)

	updated, err := s.store.Save(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logg.Debugf("contact %v updated", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	_, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	s.logg.Debugf("contact %v deleted", id)
	return nil
}

// mergeContact always overwrites the names. An incoming address replaces the
// existing one field by field, except postalCode which is only set when the
// contact had no address before.
func mergeContact(existing *models.Contact, patch *models.Contact) {
	existing.FirstName = patch.FirstName
	existing.LastName = patch.LastName

	if patch.Address == nil {
		return
	}

	if existing.Address == nil {
		address := *patch.Address
		existing.Address = &address
		return
	}

	existing.Address.Country = patch.Address.Country
	existing.Address.State = patch.Address.State
	existing.Address.City = patch.Address.City
	existing.Address.Address = patch.Address.Address
}
