package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway refreshes tokens slightly early so an in-flight request never
// carries one that dies mid-call.
const expiryLeeway = 30 * time.Second

// Source hands out valid access tokens, refreshing through the identity
// provider when the stored one is stale. It satisfies the API client's
// TokenSource contract.
type Source struct {
	mu       sync.Mutex
	store    *TokenStore
	identity *Identity
}

func NewSource(store *TokenStore, identity *Identity) *Source {
	return &Source{store: store, identity: identity}
}

func (s *Source) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	creds, ok := s.store.Current()
	if !ok {
		return "", ErrNotAuthenticated
	}
	if !needsRefresh(creds) {
		return creds.AccessToken, nil
	}

	// Serialize refreshes: concurrent calls reuse the first outcome.
	s.mu.Lock()
	defer s.mu.Unlock()
	if creds, ok = s.store.Current(); ok && !needsRefresh(creds) {
		return creds.AccessToken, nil
	}

	next, err := s.identity.Refresh()
	if err != nil {
		return "", err
	}
	return next.AccessToken, nil
}

// needsRefresh checks the stored expiry first and falls back to the exp
// claim inside the JWT when the store predates expiry tracking.
func needsRefresh(creds Credentials) bool {
	if !creds.ExpiresAt.IsZero() {
		return creds.Expired(expiryLeeway)
	}
	return jwtExpired(creds.AccessToken, expiryLeeway)
}

// jwtExpired inspects the unverified exp claim. Verification belongs to the
// server; the client only wants to avoid sending tokens it knows are dead.
func jwtExpired(token string, leeway time.Duration) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Add(leeway).After(exp.Time)
}
