package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("COGNITO_USER_POOL_ID", "us-east-1_pool")
	t.Setenv("COGNITO_CLIENT_ID", "client")
	t.Setenv("ADMIN_TOKEN", "token")
}

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "multi delimiters and dedupe",
			raw:  " https://a.example ; https://b.example,\nhttps://A.example ",
			want: []string{"https://a.example", "https://b.example"},
		},
		{
			name: "empty",
			raw:  " , ; \n ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseList(tt.raw))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Cognito.Region)
	assert.Equal(t, 30*time.Second, cfg.Cognito.ConnectionTimeout)
	assert.Equal(t, 60*time.Second, cfg.Cognito.RequestTimeout)
	assert.Equal(t, 3, cfg.Cognito.MaxAttempts)
	assert.False(t, cfg.Cognito.HasClientSecret())
}

func TestLoadCognitoOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("COGNITO_REGION", "eu-west-1")
	t.Setenv("COGNITO_CLIENT_SECRET", "s3cret")
	t.Setenv("COGNITO_ENDPOINT_OVERRIDE", "http://localhost:4566")
	t.Setenv("COGNITO_CONNECTION_TIMEOUT", "1500")
	t.Setenv("COGNITO_REQUEST_TIMEOUT", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173;http://example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Cognito.Region)
	assert.True(t, cfg.Cognito.HasClientSecret())
	assert.Equal(t, "http://localhost:4566", cfg.Cognito.EndpointOverride)
	assert.Equal(t, 1500*time.Millisecond, cfg.Cognito.ConnectionTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Cognito.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing pool",
			env:     map[string]string{"COGNITO_USER_POOL_ID": ""},
			wantErr: "COGNITO_USER_POOL_ID",
		},
		{
			name:    "missing client",
			env:     map[string]string{"COGNITO_CLIENT_ID": ""},
			wantErr: "COGNITO_CLIENT_ID",
		},
		{
			name:    "half static credentials",
			env:     map[string]string{"COGNITO_ACCESS_KEY_ID": "AKIA"},
			wantErr: "must be set together",
		},
		{
			name:    "no admin token",
			env:     map[string]string{"ADMIN_TOKEN": ""},
			wantErr: "ADMIN_TOKEN",
		},
		{
			name:    "bad log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
