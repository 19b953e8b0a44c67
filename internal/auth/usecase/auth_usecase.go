package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	authdomain "callboard/internal/auth/domain"
	authdto "callboard/internal/auth/dto"
	"callboard/pkg/config"
	"callboard/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	config *config.Config
	oauth  *oauth2.Config
	log    zerolog.Logger
	now    func() time.Time

	mu       sync.Mutex
	revoked  map[string]time.Time // session id -> token expiry
	onLogout func(sessionID string)
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{
		config: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURI,
			Scopes:       cfg.OAuthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		log:     logger.WithComponent("auth"),
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// SetLogoutCallback registers a hook run after a session signs out
func (u *authUsecase) SetLogoutCallback(callback func(sessionID string)) {
	u.mu.Lock()
	u.onLogout = callback
	u.mu.Unlock()
}

func (u *authUsecase) LoginURL(state string) (string, error) {
	if !u.config.OAuthConfigured() {
		return "", ErrOAuthNotConfigured
	}
	return u.oauth.AuthCodeURL(state), nil
}

func (u *authUsecase) HandleCallback(ctx context.Context, code string) (*authdto.TokenResponse, error) {
	if !u.config.OAuthConfigured() {
		return nil, ErrOAuthNotConfigured
	}

	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	info, err := u.userInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		ID:        firstNonEmpty(info.Sub, info.ID),
		Email:     info.Email,
		Name:      firstNonEmpty(info.Name, strings.TrimSpace(info.GivenName+" "+info.FamilyName)),
		AvatarURL: info.Picture,
	}
	if user.ID == "" {
		return nil, errors.New("identity provider returned no subject")
	}

	u.log.Info().Str("user_id", user.ID).Msg("user signed in")
	return u.generateToken(user)
}

// userInfo reads the user's claims from the userinfo endpoint, or from the
// ID token when no endpoint is configured. The ID token arrives directly from
// the token endpoint over TLS, so its signature is not re-checked here.
func (u *authUsecase) userInfo(ctx context.Context, token *oauth2.Token) (*authdto.UserInfo, error) {
	if u.config.OAuthUserInfoURL != "" {
		client := u.oauth.Client(ctx, token)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.config.OAuthUserInfoURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user info: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, fmt.Errorf("failed to fetch user info: status %d, body: %s", resp.StatusCode, string(body))
		}

		var info authdto.UserInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, fmt.Errorf("failed to decode user info: %w", err)
		}
		return &info, nil
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, errors.New("no userinfo endpoint configured and no id_token returned")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse id_token: %w", err)
	}
	return &authdto.UserInfo{
		Sub:        stringClaim(claims, "sub"),
		Email:      stringClaim(claims, "email"),
		Name:       stringClaim(claims, "name"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
		Picture:    stringClaim(claims, "picture"),
	}, nil
}

func (u *authUsecase) generateToken(user *authdomain.User) (*authdto.TokenResponse, error) {
	now := u.now()
	expiresAt := now.Add(u.config.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.AvatarURL,
		"sid":     uuid.New().String(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: signed,
		ExpiresAt:   time.Unix(expiresAt.Unix(), 0),
		User:        user,
	}, nil
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(u.now))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID := stringClaim(claims, "user_id")
	sessionID := stringClaim(claims, "sid")
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidToken
	}

	u.mu.Lock()
	_, revoked := u.revoked[sessionID]
	u.mu.Unlock()
	if revoked {
		return nil, ErrInvalidToken
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return &authdomain.Session{
		ID: sessionID,
		User: &authdomain.User{
			ID:        userID,
			Email:     stringClaim(claims, "email"),
			Name:      stringClaim(claims, "name"),
			AvatarURL: stringClaim(claims, "picture"),
		},
		Token:     tokenString,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session until its token would have expired anyway.
func (u *authUsecase) Logout(session *authdomain.Session) {
	if session == nil {
		return
	}

	u.mu.Lock()
	now := u.now()
	for id, exp := range u.revoked {
		if now.After(exp) {
			delete(u.revoked, id)
		}
	}
	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(u.config.JWTAccessExpiry)
	}
	u.revoked[session.ID] = expiresAt
	callback := u.onLogout
	u.mu.Unlock()

	if callback != nil {
		callback(session.ID)
	}
	u.log.Info().Str("session", session.ID).Msg("user signed out")
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
