package models

import "time"

// EmergencyState is the durable evidence of an activation. The zero value is
// the all-false default; !Activated implies every other field is zero.
type EmergencyState struct {
	Activated         bool       `json:"activated"`
	ActivatedAt       *time.Time `json:"activated_at,omitempty"`
	EmergencyType     string     `json:"emergency_type,omitempty"`
	SentNotifications bool       `json:"sent_notifications"`
}

// NewActivatedState returns the state written at the moment of activation.
func NewActivatedState(at time.Time, emergencyType string) EmergencyState {
	return EmergencyState{
		Activated:     true,
		ActivatedAt:   &at,
		EmergencyType: emergencyType,
	}
}

// Reset returns the all-default state written on deactivation.
func (EmergencyState) Reset() EmergencyState {
	return EmergencyState{}
}

// Consistent reports whether the invariant "not activated implies everything
// else zero" holds.
func (s EmergencyState) Consistent() bool {
	if s.Activated {
		return s.ActivatedAt != nil
	}
	return s.ActivatedAt == nil && s.EmergencyType == "" && !s.SentNotifications
}
