package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/Daskott/addressbook/server/models"
)

// MemoryStore implements Store in process memory. Contacts are copied on
// the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	lastID   uint
	contacts map[uint]*models.Contact
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(contacts ...models.Contact) *MemoryStore {
	store := &MemoryStore{contacts: make(map[uint]*models.Contact, len(contacts))}
	for _, contact := range contacts {
		store.save(&contact)
	}
	return store
}

func (s *MemoryStore) FindAll(_ context.Context) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := make([]models.Contact, 0, len(s.contacts))
	for _, contact := range s.contacts {
		contacts = append(contacts, *contact.Clone())
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID < contacts[j].ID })

	return contacts, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uint) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrContactNotFound
	}
	return contact.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(contact).Clone(), nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.contacts, id)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// save must be called with mu held.
func (s *MemoryStore) save(contact *models.Contact) *models.Contact {
	stored := contact.Clone()
	if stored.ID == 0 {
		s.lastID++
		stored.ID = s.lastID
	} else if stored.ID > s.lastID {
		s.lastID = stored.ID
	}

	s.contacts[stored.ID] = stored
	return stored
}
