package domain

import "time"

// User is the signed-in person as reported by the identity provider.
// Nothing about the user is stored locally; it travels inside the session token.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session is a validated session token.
type Session struct {
	ID        string    `json:"id"`
	User      *User     `json:"user"`
	Token     string    `json:"-"` // Never return the token in JSON
	ExpiresAt time.Time `json:"expires_at"`
}
