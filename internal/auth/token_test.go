package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	session, token, err := tm.NewSession()
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, session.IssuedAt.Add(time.Hour), session.ExpiresAt, time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.SessionID)
}

func TestSessionIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	a, _, err := tm.NewSession()
	require.NoError(t, err)
	b, _, err := tm.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	_, token, err := tm.NewSession()
	require.NoError(t, err)

	other := NewTokenManager("other-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)

	_, err = tm.ParseToken("not-a-jwt")
	assert.Error(t, err)

	expired := NewTokenManager("secret", time.Nanosecond)
	_, stale, err := expired.NewSession()
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)
	_, err = expired.ParseToken(stale)
	assert.Error(t, err)
}
