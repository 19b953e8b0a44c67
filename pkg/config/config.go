package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	GinMode           string
	LogLevel          string
	LogFormat         string
	VapiAPIKey        string
	VapiBaseURL       string
	VapiTimeout       time.Duration
	ProxyBaseURL      string
	JWTSecret         string
	JWTAccessExpiry   time.Duration
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthRedirectURI  string
	OAuthScopes       []string
	PostLoginRedirect string
	PublicPaths       []string
	CORSAllowedOrigin string
	CookieSecure      bool
	DisplayLocation   *time.Location
	MetricsAddr       string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	accessExpiry := 24 * time.Hour
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	// Zero means the provider call may block as long as the inbound request lives.
	var vapiTimeout time.Duration
	if t := os.Getenv("VAPI_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil && parsed > 0 {
			vapiTimeout = parsed
		}
	}

	location := time.Local
	if tz := os.Getenv("DISPLAY_TIMEZONE"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			location = loc
		}
	}

	return &Config{
		Port:              port,
		GinMode:           getEnv("GIN_MODE", "release"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		VapiAPIKey:        os.Getenv("VAPI_API_KEY"),
		VapiBaseURL:       strings.TrimRight(getEnv("VAPI_BASE_URL", "https://api.vapi.ai"), "/"),
		VapiTimeout:       vapiTimeout,
		ProxyBaseURL:      strings.TrimRight(getEnv("PROXY_BASE_URL", "http://127.0.0.1:"+port), "/"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:   accessExpiry,
		OAuthClientID:     getEnv("OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),
		OAuthAuthURL:      getEnv("OAUTH_AUTH_URL", ""),
		OAuthTokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
		OAuthUserInfoURL:  getEnv("OAUTH_USERINFO_URL", ""),
		OAuthRedirectURI:  getEnv("OAUTH_REDIRECT_URI", "http://localhost:"+port+"/api/auth/callback"),
		OAuthScopes:       getList("OAUTH_SCOPES", []string{"openid", "profile", "email"}),
		PostLoginRedirect: getEnv("POST_LOGIN_REDIRECT", "/dashboard"),
		PublicPaths:       getList("PUBLIC_PATHS", []string{"/", "/api/public"}),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", ""),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",
		DisplayLocation:   location,
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
	}
}

// OAuthConfigured reports whether enough identity provider settings are present to run the sign-in flow.
func (c *Config) OAuthConfigured() bool {
	return c.OAuthClientID != "" && c.OAuthAuthURL != "" && c.OAuthTokenURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
