package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("VAPI_API_KEY", "")
	t.Setenv("VAPI_BASE_URL", "")
	t.Setenv("VAPI_TIMEOUT", "")
	t.Setenv("PROXY_BASE_URL", "")
	t.Setenv("PUBLIC_PATHS", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("OAUTH_CLIENT_ID", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.VapiAPIKey)
	assert.Equal(t, "https://api.vapi.ai", cfg.VapiBaseURL)
	assert.Zero(t, cfg.VapiTimeout)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ProxyBaseURL)
	assert.Equal(t, []string{"/", "/api/public"}, cfg.PublicPaths)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.False(t, cfg.OAuthConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VAPI_API_KEY", "secret")
	t.Setenv("VAPI_BASE_URL", "https://provider.test/")
	t.Setenv("VAPI_TIMEOUT", "5s")
	t.Setenv("PUBLIC_PATHS", " /, /api/public , /about,")
	t.Setenv("OAUTH_CLIENT_ID", "client")
	t.Setenv("OAUTH_AUTH_URL", "https://idp.test/authorize")
	t.Setenv("OAUTH_TOKEN_URL", "https://idp.test/token")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "secret", cfg.VapiAPIKey)
	assert.Equal(t, "https://provider.test", cfg.VapiBaseURL)
	assert.Equal(t, 5*time.Second, cfg.VapiTimeout)
	assert.Equal(t, "http://127.0.0.1:9090", cfg.ProxyBaseURL)
	assert.Equal(t, []string{"/", "/api/public", "/about"}, cfg.PublicPaths)
	assert.True(t, cfg.OAuthConfigured())
	require.NotNil(t, cfg.DisplayLocation)
	assert.Equal(t, "UTC", cfg.DisplayLocation.String())
}

func TestLoad_InvalidDurationsFallBack(t *testing.T) {
	t.Setenv("VAPI_TIMEOUT", "soon")
	t.Setenv("JWT_ACCESS_EXPIRY", "forever")

	cfg := Load()

	assert.Zero(t, cfg.VapiTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
}
