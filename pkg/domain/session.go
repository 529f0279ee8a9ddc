package domain

import "time"

// Session is the client-side authentication state.
// User is only ever set together with Token.
type Session struct {
	Token     string    `json:"token,omitempty"`
	User      *User     `json:"user,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Authenticated reports whether a credential is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
