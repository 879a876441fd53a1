package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the identity API server.
type Config struct {
	ListenAddr         string
	AdminToken         string
	AdminTokenBcrypt   string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	LogLevel           string
	LogFormat          string
	MFAIssuer          string

	Cognito Cognito
}

// Cognito describes how to reach a single user pool and app client.
type Cognito struct {
	Region           string
	UserPoolID       string
	ClientID         string
	ClientSecret     string
	EndpointOverride string
	AccessKeyID      string
	SecretAccessKey  string
	ResourceServerID string

	// ConnectionTimeout bounds a single HTTP attempt.
	ConnectionTimeout time.Duration
	// RequestTimeout bounds a whole provider call, retries included.
	RequestTimeout time.Duration
	MaxAttempts    int
}

// HasClientSecret reports whether requests must carry a SECRET_HASH.
func (c Cognito) HasClientSecret() bool {
	return strings.TrimSpace(c.ClientSecret) != ""
}

// HasStaticCredentials reports whether both halves of a static key pair are set.
func (c Cognito) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func Load() (Config, error) {
	defaultCORSOrigins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	cfg := Config{
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		AdminToken:       getenv("ADMIN_TOKEN", ""),
		AdminTokenBcrypt: getenv("ADMIN_TOKEN_BCRYPT", ""),
		HTTPReadTimeout:  getenvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		HTTPWriteTimeout: getenvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		HTTPIdleTimeout:  getenvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		LogLevel:         strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(getenv("LOG_FORMAT", "text")),
		MFAIssuer:        getenv("MFA_ISSUER", "Cognito"),
		Cognito: Cognito{
			Region:            getenv("COGNITO_REGION", "us-east-1"),
			UserPoolID:        getenv("COGNITO_USER_POOL_ID", ""),
			ClientID:          getenv("COGNITO_CLIENT_ID", ""),
			ClientSecret:      getenv("COGNITO_CLIENT_SECRET", ""),
			EndpointOverride:  getenv("COGNITO_ENDPOINT_OVERRIDE", ""),
			AccessKeyID:       getenv("COGNITO_ACCESS_KEY_ID", ""),
			SecretAccessKey:   getenv("COGNITO_SECRET_ACCESS_KEY", ""),
			ResourceServerID:  getenv("COGNITO_RESOURCE_SERVER_ID", ""),
			ConnectionTimeout: getenvDuration("COGNITO_CONNECTION_TIMEOUT", 30*time.Second),
			RequestTimeout:    getenvDuration("COGNITO_REQUEST_TIMEOUT", 60*time.Second),
			MaxAttempts:       getenvInt("COGNITO_MAX_ATTEMPTS", 3),
		},
	}
	cfg.CORSAllowedOrigins = parseList(getenv("CORS_ALLOWED_ORIGINS", strings.Join(defaultCORSOrigins, ",")))
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = defaultCORSOrigins
	}

	if err := cfg.Cognito.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.AdminToken == "" && cfg.AdminTokenBcrypt == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN or ADMIN_TOKEN_BCRYPT must be set")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// Validate checks the settings needed to build a client.
func (c *Cognito) Validate() error {
	if strings.TrimSpace(c.Region) == "" {
		return fmt.Errorf("COGNITO_REGION cannot be empty")
	}
	if strings.TrimSpace(c.UserPoolID) == "" {
		return fmt.Errorf("COGNITO_USER_POOL_ID cannot be empty")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return fmt.Errorf("COGNITO_CLIENT_ID cannot be empty")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("COGNITO_ACCESS_KEY_ID and COGNITO_SECRET_ACCESS_KEY must be set together")
	}
	if c.ConnectionTimeout <= 0 {
		c.ConnectionTimeout = 30 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	return nil
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getenvDuration accepts Go duration syntax or a bare integer in milliseconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseList(raw string) []string {
	replacer := strings.NewReplacer("\n", ",", ";", ",")
	parts := strings.Split(replacer.Replace(raw), ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
