// Package models defines the domain records stored in the vault.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safehold-app/safehold/internal/common"
)

// PersonalInformation is the record a person stages on their own device: the
// identity details and emergency contacts a legal-intake service needs at the
// moment of activation. It lives only inside the vault and leaves the device
// only through an explicit emergency submission.
type PersonalInformation struct {
	FirstName               string             `json:"first_name"`
	LastName                string             `json:"last_name"`
	CountryOfBirth          string             `json:"country_of_birth"`
	Nationality             string             `json:"nationality,omitempty"`
	BirthDate               time.Time          `json:"birth_date"`
	AlienRegistrationNumber string             `json:"alien_registration_number,omitempty"`
	PassportNumber          string             `json:"passport_number,omitempty"`
	SchoolName              string             `json:"school_name,omitempty"`
	StudentIDNumber         string             `json:"student_id_number,omitempty"`
	EmergencyContacts       []EmergencyContact `json:"emergency_contacts"`
}

// EmergencyContact is owned by its parent PersonalInformation and has no
// independent lifecycle. ID is assigned at creation and never reused.
type EmergencyContact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// NewEmergencyContact creates a contact with a unique ID.
func NewEmergencyContact(name, phone, relationship string) EmergencyContact {
	return EmergencyContact{
		ID:           uuid.NewString(),
		Name:         name,
		Phone:        phone,
		Relationship: relationship,
	}
}

// DisplayName returns a display-friendly name with the relationship, e.g.
// "Sam (sister)".
func (c EmergencyContact) DisplayName() string {
	if c.Relationship == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Relationship)
}

func (c EmergencyContact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contact name is required", common.ErrInvalidRecord)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: contact phone is required", common.ErrInvalidRecord)
	}
	return nil
}

// Validate checks the required identity fields and every contact.
func (p *PersonalInformation) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", common.ErrInvalidRecord)
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: last name is required", common.ErrInvalidRecord)
	}
	if strings.TrimSpace(p.CountryOfBirth) == "" {
		return fmt.Errorf("%w: country of birth is required", common.ErrInvalidRecord)
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth date is required", common.ErrInvalidRecord)
	}

	seen := make(map[string]struct{}, len(p.EmergencyContacts))
	for i, c := range p.EmergencyContacts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("contact %d: %w", i, err)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate contact id %s", common.ErrInvalidRecord, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// AddContact validates and appends a contact to the record.
func (p *PersonalInformation) AddContact(c EmergencyContact) error {
	if err := c.Validate(); err != nil {
		return err
	}
	p.EmergencyContacts = append(p.EmergencyContacts, c)
	return nil
}

// RemoveContact deletes the contact with the given id, reporting whether it
// was present.
func (p *PersonalInformation) RemoveContact(id string) bool {
	for i, c := range p.EmergencyContacts {
		if c.ID == id {
			p.EmergencyContacts = append(p.EmergencyContacts[:i], p.EmergencyContacts[i+1:]...)
			return true
		}
	}
	return false
}
