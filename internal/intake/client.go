// Package intake talks to the external legal-intake service. The core treats
// it as a single opaque "submit emergency record" call: success or failure,
// nothing else. Transport security and the service's own matching logic are
// out of scope here.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/logging"
	"github.com/safehold-app/safehold/internal/models"
)

const submitPath = "/api/v1/emergency/intake"

// deviceTokenTTL bounds the validity of the bearer token minted per request.
const deviceTokenTTL = 5 * time.Minute

// Submitter hands an emergency record to the intake service.
type Submitter interface {
	Submit(ctx context.Context, info *models.PersonalInformation) error
}

// Client is the HTTP implementation of Submitter.
type Client struct {
	baseURL     string
	deviceID    string
	tokenSecret []byte
	http        *http.Client
	log         logging.Logger
	now         func() time.Time
}

// NewClient returns an intake client posting to baseURL. tokenSecret signs
// the short-lived device token attached to each submission.
func NewClient(baseURL, deviceID string, tokenSecret []byte, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		deviceID:    deviceID,
		tokenSecret: tokenSecret,
		http:        &http.Client{Timeout: timeout},
		log:         log,
		now:         time.Now,
	}
}

// submitRequest is the wire shape of an emergency submission.
type submitRequest struct {
	FirstName               string          `json:"first_name"`
	LastName                string          `json:"last_name"`
	CountryOfBirth          string          `json:"country_of_birth"`
	Nationality             string          `json:"nationality,omitempty"`
	BirthDate               string          `json:"birth_date"`
	AlienRegistrationNumber string          `json:"alien_registration_number,omitempty"`
	PassportNumber          string          `json:"passport_number,omitempty"`
	SchoolName              string          `json:"school_name,omitempty"`
	StudentIDNumber         string          `json:"student_id_number,omitempty"`
	EmergencyContacts       []submitContact `json:"emergency_contacts"`
}

type submitContact struct {
	FullName     string `json:"full_name"`
	PhoneNumber  string `json:"phone_number"`
	Relationship string `json:"relationship,omitempty"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Submit posts the full record once. It never retries; best-effort policy
// belongs to the caller. Any transport or non-2xx failure is reported as
// common.ErrTransmissionFailure.
func (c *Client) Submit(ctx context.Context, info *models.PersonalInformation) error {
	body, err := json.Marshal(toSubmitRequest(info))
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submission request: %w", err)
	}

	token, err := c.deviceToken()
	if err != nil {
		return fmt.Errorf("sign device token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTransmissionFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: intake responded %d", common.ErrTransmissionFailure, resp.StatusCode)
	}

	c.log.Info(ctx, "emergency record submitted", "status", resp.StatusCode)
	return nil
}

func toSubmitRequest(info *models.PersonalInformation) submitRequest {
	r := submitRequest{
		FirstName:               info.FirstName,
		LastName:                info.LastName,
		CountryOfBirth:          info.CountryOfBirth,
		Nationality:             info.Nationality,
		BirthDate:               info.BirthDate.Format("2006-01-02"),
		AlienRegistrationNumber: info.AlienRegistrationNumber,
		PassportNumber:          info.PassportNumber,
		SchoolName:              info.SchoolName,
		StudentIDNumber:         info.StudentIDNumber,
		EmergencyContacts:       make([]submitContact, 0, len(info.EmergencyContacts)),
	}
	for _, c := range info.EmergencyContacts {
		r.EmergencyContacts = append(r.EmergencyContacts, submitContact{
			FullName:     c.Name,
			PhoneNumber:  c.Phone,
			Relationship: c.Relationship,
			Email:        c.Email,
			Address:      c.Address,
			Notes:        c.Notes,
		})
	}
	return r
}

// deviceToken mints a short-lived HS256 token identifying the device. The
// random jti lets the intake service deduplicate replayed submissions.
func (c *Client) deviceToken() (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        jti,
		Subject:   c.deviceID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(deviceTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.tokenSecret)
}
