package models

// Settings is the app settings blob, stored wholesale.
type Settings struct {
	Notifications bool   `json:"notifications"`
	Haptics       bool   `json:"haptics"`
	Theme         string `json:"theme"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{Notifications: true, Haptics: true, Theme: "dark"}
}

// StudyReminder is the persisted daily study reminder preference.
type StudyReminder struct {
	Hour    int  `json:"hour"`
	Minute  int  `json:"minute"`
	Enabled bool `json:"enabled"`
}
