package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewTokenStore(path)
	require.NoError(t, err)

	if _, ok := store.Current(); ok {
		t.Fatal("fresh store should hold no credentials")
	}

	creds := Credentials{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-def",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
		UserId:       "11111111-2222-3333-4444-555555555555",
		Email:        "abogada@example.com",
	}
	require.NoError(t, store.Save(creds))

	got, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, creds.AccessToken, got.AccessToken)
	assert.Equal(t, creds.RefreshToken, got.RefreshToken)
	assert.Equal(t, creds.Email, got.Email)

	// A second store over the same file sees the same session: the
	// localStorage analog survives process restarts.
	reopened, err := NewTokenStore(path)
	require.NoError(t, err)
	got, ok = reopened.Current()
	require.True(t, ok)
	assert.Equal(t, creds.AccessToken, got.AccessToken)
}

func TestTokenStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(Credentials{AccessToken: "secret"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "credentials must be owner-only")
}

func TestTokenStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(Credentials{AccessToken: "secret"}))

	require.NoError(t, store.Clear())
	if _, ok := store.Current(); ok {
		t.Error("credentials survive Clear")
	}
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "credentials file must be removed")

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestTokenStoreWatchPicksUpExternalRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Watch())
	defer store.Close()

	// Another process (a parallel login) rewrites the file directly.
	other, err := NewTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, other.Save(Credentials{AccessToken: "from-other-process"}))

	assert.Eventually(t, func() bool {
		creds, ok := store.Current()
		return ok && creds.AccessToken == "from-other-process"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCredentialsExpired(t *testing.T) {
	tests := []struct {
		name     string
		expires  time.Time
		leeway   time.Duration
		expected bool
	}{
		{"well in the future", time.Now().Add(time.Hour), 30 * time.Second, false},
		{"already past", time.Now().Add(-time.Minute), 30 * time.Second, true},
		{"inside leeway", time.Now().Add(10 * time.Second), 30 * time.Second, true},
		{"zero expiry means unknown", time.Time{}, 30 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := Credentials{ExpiresAt: tt.expires}
			assert.Equal(t, tt.expected, creds.Expired(tt.leeway))
		})
	}
}
