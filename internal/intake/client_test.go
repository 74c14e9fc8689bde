package intake

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safehold-app/safehold/internal/common"
	"github.com/safehold-app/safehold/internal/logging"
	"github.com/safehold-app/safehold/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenSecret = []byte("device-token-secret")

func sampleInfo() *models.PersonalInformation {
	return &models.PersonalInformation{
		FirstName:      "Jane",
		LastName:       "Doe",
		CountryOfBirth: "Honduras",
		BirthDate:      time.Date(1999, 4, 12, 0, 0, 0, 0, time.UTC),
		EmergencyContacts: []models.EmergencyContact{
			{ID: "1", Name: "Sam", Phone: "+15550001111", Relationship: "sister"},
		},
	}
}

func TestClient_Submit_PostsFullRecord(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "device-1", tokenSecret, 5*time.Second, logging.NewNopLogger())
	require.NoError(t, c.Submit(context.Background(), sampleInfo()))

	assert.Equal(t, "/api/v1/emergency/intake", gotPath)
	assert.Equal(t, "Jane", gotBody["first_name"])
	assert.Equal(t, "1999-04-12", gotBody["birth_date"])

	contacts, ok := gotBody["emergency_contacts"].([]any)
	require.True(t, ok)
	require.Len(t, contacts, 1)
	contact := contacts[0].(map[string]any)
	assert.Equal(t, "Sam", contact["full_name"])
	assert.Equal(t, "+15550001111", contact["phone_number"])

	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(gotAuth, "Bearer "), &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return tokenSecret, nil })
	require.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "device-1", claims.Subject)
	assert.Len(t, claims.ID, 32, "token id must be 16 random bytes hex-encoded")
}

func TestClient_Submit_MintsFreshTokenPerSubmission(t *testing.T) {
	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "device-1", tokenSecret, 5*time.Second, logging.NewNopLogger())
	require.NoError(t, c.Submit(context.Background(), sampleInfo()))
	require.NoError(t, c.Submit(context.Background(), sampleInfo()))

	require.Len(t, auths, 2)
	assert.NotEqual(t, auths[0], auths[1], "token ids must differ across submissions")
}

func TestClient_Submit_NonSuccessStatusIsTransmissionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "device-1", tokenSecret, 5*time.Second, logging.NewNopLogger())
	err := c.Submit(context.Background(), sampleInfo())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransmissionFailure)
}

func TestClient_Submit_ConnectionErrorIsTransmissionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "device-1", tokenSecret, time.Second, logging.NewNopLogger())
	err := c.Submit(context.Background(), sampleInfo())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransmissionFailure)
}

func TestClient_Submit_RespectsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() { close(block); srv.Close() }()

	c := NewClient(srv.URL, "device-1", tokenSecret, 30*time.Second, logging.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Submit(ctx, sampleInfo())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrTransmissionFailure)
}
