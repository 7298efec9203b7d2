package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, expiresAt, err := m.GenerateAccessToken(42, "till1", "cashier")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "till1", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestAccessTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	token, _, err := NewJWTManager("secret", time.Hour).GenerateAccessToken(1, "till1", "cashier")
	require.NoError(t, err)
	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired, _, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(1, "till1", "cashier")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ValidateAccessToken(expired)
	assert.Error(t, err)
}

func TestTrackingToken(t *testing.T) {
	a, b := NewTrackingToken(), NewTrackingToken()
	assert.Regexp(t, regexp.MustCompile(`^TRK-[0-9A-F]{12}$`), a)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, NewRequestID())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
