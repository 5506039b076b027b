package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/venture-profile/internal/config"
	"github.com/jonathan/venture-profile/internal/server"
)

const testSecret = "profile-agent-test-secret-0123456789"

func setJWTEnv(t *testing.T, secret string) {
	t.Helper()
	t.Setenv("JWT_SECRET", secret)
	t.Setenv("JWT_ISSUER", "profile_agent")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
}

func TestTokenCommand(t *testing.T) {
	setJWTEnv(t, testSecret)
	subject := uuid.New()

	stdout, stderr, err := executeCommand(t, "token", "--subject", subject.String())
	require.NoError(t, err)
	assert.Contains(t, stderr, "issued token")

	svc := server.NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "profile_agent", ExpirationHours: 24})
	claims, err := svc.ValidateToken(strings.TrimSpace(stdout))
	require.NoError(t, err)
	assert.Equal(t, subject, claims.UserID)
	assert.Equal(t, "profile_agent", claims.Issuer)
}

func TestTokenCommand_RandomSubject(t *testing.T) {
	setJWTEnv(t, testSecret)

	first, _, err := executeCommand(t, "token")
	require.NoError(t, err)
	second, _, err := executeCommand(t, "token")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTokenCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		args   []string
		errMsg string
	}{
		{"missing secret", "", []string{"token"}, "JWT_SECRET is required"},
		{"short secret", "short", []string{"token"}, "at least 16 characters"},
		{"bad subject", testSecret, []string{"token", "--subject", "admin"}, `invalid subject "admin"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setJWTEnv(t, tt.secret)
			stdout, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Empty(t, stdout)
		})
	}
}
