package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmergencyState_ZeroValueIsConsistentDefault(t *testing.T) {
	var s EmergencyState
	assert.False(t, s.Activated)
	assert.Nil(t, s.ActivatedAt)
	assert.Empty(t, s.EmergencyType)
	assert.False(t, s.SentNotifications)
	assert.True(t, s.Consistent())
}

func TestNewActivatedState(t *testing.T) {
	at := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	s := NewActivatedState(at, "detention")

	assert.True(t, s.Activated)
	require.NotNil(t, s.ActivatedAt)
	assert.Equal(t, at, *s.ActivatedAt)
	assert.Equal(t, "detention", s.EmergencyType)
	assert.False(t, s.SentNotifications)
	assert.True(t, s.Consistent())
}

func TestEmergencyState_ResetClearsEverything(t *testing.T) {
	s := NewActivatedState(time.Now(), "detention")
	s.SentNotifications = true

	got := s.Reset()
	assert.Equal(t, EmergencyState{}, got)
	assert.True(t, got.Consistent())
}

func TestEmergencyState_ConsistentDetectsViolations(t *testing.T) {
	assert.False(t, EmergencyState{EmergencyType: "detention"}.Consistent())
	assert.False(t, EmergencyState{SentNotifications: true}.Consistent())
	assert.False(t, EmergencyState{Activated: true}.Consistent())
}
