package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestValidateToken_Rejects(t *testing.T) {
	good, err := GenerateToken("user-1", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("user-1", "secret", -time.Minute)
	require.NoError(t, err)
	anonymous, err := GenerateToken("", "secret", time.Hour)
	require.NoError(t, err)

	tests := map[string]struct{ token, secret string }{
		"wrong secret": {good, "other"},
		"expired":      {expired, "secret"},
		"no user":      {anonymous, "secret"},
		"garbage":      {"not-a-token", "secret"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}
