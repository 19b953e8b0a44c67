package dto

import (
	"time"

	authdomain "callboard/internal/auth/domain"
)

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	User        *authdomain.User `json:"user"`
}

// UserInfo is the subset of OpenID Connect standard claims the dashboard uses.
type UserInfo struct {
	Sub        string `json:"sub"`
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}
