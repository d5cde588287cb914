package config_entries

type PushType = string

const (
	ApplePush    PushType = "apple"
	FirebasePush PushType = "firebase"
)

// IsKnownPushType reports whether t names one of the loopback test push clients.
func IsKnownPushType(t PushType) bool {
	switch t {
	case ApplePush, FirebasePush:
		return true
	default:
		return false
	}
}
