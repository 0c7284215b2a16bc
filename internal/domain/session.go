package domain

import "time"

// Cookie is one browser cookie, serialized into the state file.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"` // unix seconds, <= 0 means session cookie
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// OriginStorage carries the localStorage entries captured for one origin.
type OriginStorage struct {
	Origin       string            `json:"origin"`
	LocalStorage map[string]string `json:"localStorage,omitempty"`
}

// SessionState is the serialized authentication context produced by a manual
// login. It is written to the state file and restored read-only on later runs;
// the site invalidates it on its own schedule, there is no in-process expiry.
type SessionState struct {
	Cookies []Cookie        `json:"cookies"`
	Origins []OriginStorage `json:"origins,omitempty"`
	SavedAt time.Time       `json:"savedAt"`
}
