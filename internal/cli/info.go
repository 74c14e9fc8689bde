package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/models"
)

const birthDateLayout = "2006-01-02"

// vaultUnavailable reports (and tells the user about) degraded mode; vault
// commands bail out through it.
func (a *App) vaultUnavailable() bool {
	if a.degraded {
		printlnFn("Secure storage is unavailable on this device.")
	}
	return a.degraded
}

// EditInfo interactively fills in the personal record and stores it in the
// vault. An existing record is loaded first, so editing preserves contacts.
func (a *App) EditInfo(ctx context.Context) error {
	if a.vaultUnavailable() {
		return common.ErrKeyUnavailable
	}
	info := a.loadOrNewInfo(ctx)

	var err error
	if info.FirstName, err = GetSimpleText(a.reader, "First name", os.Stdout); err != nil {
		return err
	}
	if info.LastName, err = GetSimpleText(a.reader, "Last name", os.Stdout); err != nil {
		return err
	}
	if info.CountryOfBirth, err = GetSimpleText(a.reader, "Country of birth", os.Stdout); err != nil {
		return err
	}
	if info.Nationality, err = GetSimpleText(a.reader, "Nationality (optional)", os.Stdout); err != nil {
		return err
	}

	birth, err := GetSimpleText(a.reader, "Birth date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return err
	}
	info.BirthDate, err = time.Parse(birthDateLayout, birth)
	if err != nil {
		printlnFn("Invalid date, expected YYYY-MM-DD")
		return err
	}

	// Read without echo; these identifiers should not linger on screen.
	if info.AlienRegistrationNumber, err = GetSensitiveText("A-Number (optional)", os.Stdout); err != nil {
		return err
	}
	if info.PassportNumber, err = GetSensitiveText("Passport number (optional)", os.Stdout); err != nil {
		return err
	}

	if err := info.Validate(); err != nil {
		printlnFn(fmt.Sprintf("Record not saved: %v", err))
		return err
	}

	if err := a.info.Save(ctx, *info); err != nil {
		a.log.Error(ctx, "cannot save personal record", "error", err)
		printlnFn("Could not save the record, please try again")
		return err
	}

	printlnFn("Personal record saved.")
	return nil
}

// ShowInfo prints the staged record, with sensitive identifiers masked.
func (a *App) ShowInfo(ctx context.Context) error {
	info := a.info.Load(ctx)
	if info == nil {
		printlnFn("No personal record staged.")
		return nil
	}

	printlnFn(fmt.Sprintf("Name: %s %s", info.FirstName, info.LastName))
	printlnFn(fmt.Sprintf("Country of birth: %s", info.CountryOfBirth))
	if info.Nationality != "" {
		printlnFn(fmt.Sprintf("Nationality: %s", info.Nationality))
	}
	printlnFn(fmt.Sprintf("Birth date: %s", info.BirthDate.Format(birthDateLayout)))
	if info.AlienRegistrationNumber != "" {
		printlnFn("A-Number: ********")
	}
	if info.PassportNumber != "" {
		printlnFn("Passport: ********")
	}

	if len(info.EmergencyContacts) == 0 {
		printlnFn("No emergency contacts (use 'addcontact').")
		return nil
	}
	printlnFn("Emergency contacts:")
	for _, c := range info.EmergencyContacts {
		printlnFn(fmt.Sprintf("  [%s] %s %s", c.ID, c.DisplayName(), c.Phone))
	}
	return nil
}

// AddContact appends an emergency contact to the staged record.
func (a *App) AddContact(ctx context.Context) error {
	if a.vaultUnavailable() {
		return common.ErrKeyUnavailable
	}
	info := a.loadOrNewInfo(ctx)

	name, err := GetSimpleText(a.reader, "Contact name", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Contact phone", os.Stdout)
	if err != nil {
		return err
	}
	relationship, err := GetSimpleText(a.reader, "Relationship (optional)", os.Stdout)
	if err != nil {
		return err
	}

	contact := models.NewEmergencyContact(name, phone, relationship)
	if err := info.AddContact(contact); err != nil {
		printlnFn(fmt.Sprintf("Contact not added: %v", err))
		return err
	}

	if err := a.info.Save(ctx, *info); err != nil {
		a.log.Error(ctx, "cannot save personal record", "error", err)
		printlnFn("Could not save the record, please try again")
		return err
	}

	printlnFn(fmt.Sprintf("Contact %s added.", contact.DisplayName()))
	return nil
}

// RemoveContact deletes a contact by id.
func (a *App) RemoveContact(ctx context.Context) error {
	if a.vaultUnavailable() {
		return common.ErrKeyUnavailable
	}
	info := a.info.Load(ctx)
	if info == nil {
		printlnFn("No personal record staged.")
		return nil
	}

	id, err := GetSimpleText(a.reader, "Contact id", os.Stdout)
	if err != nil {
		return err
	}

	if !info.RemoveContact(id) {
		printlnFn("No contact with that id.")
		return nil
	}

	if err := a.info.Save(ctx, *info); err != nil {
		a.log.Error(ctx, "cannot save personal record", "error", err)
		return err
	}

	printlnFn("Contact removed.")
	return nil
}

// Wipe removes the staged personal record from the vault. The emergency
// state record is untouched.
func (a *App) Wipe(ctx context.Context) error {
	if err := a.info.Remove(ctx); err != nil {
		a.log.Error(ctx, "cannot remove personal record", "error", err)
		return err
	}
	printlnFn("Personal record removed from this device.")
	return nil
}

func (a *App) loadOrNewInfo(ctx context.Context) *models.PersonalInformation {
	if info := a.info.Load(ctx); info != nil {
		return info
	}
	return &models.PersonalInformation{}
}
