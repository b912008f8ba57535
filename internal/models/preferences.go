package models

// Preferences holds a user's persisted view settings
type Preferences struct {
	UserID        string `json:"user_id"`
	PrefersAPView bool   `json:"prefers_ap_view"`
}

// DefaultPreferences is what a user without stored settings gets
func DefaultPreferences(userID string) Preferences {
	return Preferences{UserID: userID, PrefersAPView: false}
}

// PreferencesUpdate is the request body for changing preferences
type PreferencesUpdate struct {
	PrefersAPView *bool `json:"prefers_ap_view" validate:"required"`
}
