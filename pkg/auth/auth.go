// Package auth owns the client's identity: Supabase-backed sign-in, the
// on-disk credential store, and the token source the API client pulls bearer
// tokens from.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"
)

// ErrMisconfigured means the identity provider settings are absent or
// unusable. This is fatal: nothing in the app can authenticate, so callers
// short-circuit to a dedicated configuration error instead of limping on.
var ErrMisconfigured = errors.New("identity provider misconfigured")

// ErrNotAuthenticated means no stored credentials exist. Callers should
// direct the user to sign in.
var ErrNotAuthenticated = errors.New("not authenticated")

// Credentials is the persisted session: the localStorage analog.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserId       string    `json:"user_id,omitempty"`
	Email        string    `json:"email,omitempty"`
}

// Expired reports whether the access token is past (or within leeway of)
// its expiry.
func (c Credentials) Expired(leeway time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(leeway).After(c.ExpiresAt)
}

// NewSupabase builds the Supabase client, failing fast on missing settings.
func NewSupabase(url, anonKey string) (*supabase.Client, error) {
	if url == "" || anonKey == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL and SUPABASE_ANON_KEY must be set", ErrMisconfigured)
	}
	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMisconfigured, err)
	}
	return client, nil
}
