package vault

// Fixed logical keys for the records SafeHold persists.
const (
	KeyPersonalInformation = "personal_information"
	KeyEmergencyState      = "emergency_state"
)
