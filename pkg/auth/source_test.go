package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestJwtExpired(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{"valid for an hour", signTestJWT(t, time.Now().Add(time.Hour)), false},
		{"expired", signTestJWT(t, time.Now().Add(-time.Minute)), true},
		{"inside leeway", signTestJWT(t, time.Now().Add(5*time.Second)), true},
		{"not a JWT", "opaque-token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, jwtExpired(tt.token, expiryLeeway))
		})
	}
}

func TestNeedsRefreshPrefersStoredExpiry(t *testing.T) {
	// Stored expiry wins even when the JWT disagrees.
	creds := Credentials{
		AccessToken: signTestJWT(t, time.Now().Add(-time.Hour)),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	assert.False(t, needsRefresh(creds))

	// Without stored expiry the exp claim decides.
	creds = Credentials{AccessToken: signTestJWT(t, time.Now().Add(-time.Hour))}
	assert.True(t, needsRefresh(creds))
}

func TestSourceReturnsFreshToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(Credentials{
		AccessToken: "fresh-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	source := NewSource(store, nil)
	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestSourceWithoutCredentials(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)

	source := NewSource(store, nil)
	_, err = source.Token(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSourceHonorsContext(t *testing.T) {
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewSource(store, nil)
	_, err = source.Token(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
