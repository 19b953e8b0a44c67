package usecase

import (
	"context"
	"errors"

	authdomain "callboard/internal/auth/domain"
	authdto "callboard/internal/auth/dto"
)

var (
	ErrOAuthNotConfigured = errors.New("identity provider is not configured")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthUsecase defines the interface for sign-in and session validation
type AuthUsecase interface {
	// LoginURL returns the identity provider URL that starts the sign-in flow.
	LoginURL(state string) (string, error)
	// HandleCallback exchanges an authorization code for a session token.
	HandleCallback(ctx context.Context, code string) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (*authdomain.Session, error)
	Logout(session *authdomain.Session)
	SetLogoutCallback(callback func(sessionID string))
}
