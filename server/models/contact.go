package models

import "errors"

var ErrContactNotFound = errors.New("no contact found")

// Address is stored inline with its contact and has no identity of its own.
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}

type Contact struct {
	ID        uint     `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Address   *Address `json:"address"`
}

// Clone returns a deep copy of the contact, including its address.
func (contact Contact) Clone() *Contact {
	if contact.Address != nil {
		address := *contact.Address
		contact.Address = &address
	}
	return &contact
}

// contactRecord is the row shape of a contact. HasAddress keeps a missing
// address apart from an address whose fields are all empty.
type contactRecord struct {
	BaseModel
	FirstName  string
	LastName   string
	HasAddress bool    `gorm:"not null;default:false"`
	Address    Address `gorm:"embedded;embeddedPrefix:address_"`
}

func (contactRecord) TableName() string {
	return "contacts"
}

func newContactRecord(contact *Contact) *contactRecord {
	record := &contactRecord{
		BaseModel: BaseModel{ID: contact.ID},
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
	}

	if contact.Address != nil {
		record.HasAddress = true
		record.Address = *contact.Address
	}

	return record
}

func (record *contactRecord) contact() *Contact {
	contact := &Contact{
		ID:        record.ID,
		FirstName: record.FirstName,
		LastName:  record.LastName,
	}

	if record.HasAddress {
		address := record.Address
		contact.Address = &address
	}

	return contact
}
