package auth

import (
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"
)

// Identity runs the auth flows against Supabase and keeps the token store in
// sync with their outcomes.
type Identity struct {
	client *supabase.Client
	store  *TokenStore
}

func NewIdentity(client *supabase.Client, store *TokenStore) *Identity {
	return &Identity{client: client, store: store}
}

// SignIn exchanges email+password for a session and persists it.
func (i *Identity) SignIn(email, password string) (Credentials, error) {
	session, err := i.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return Credentials{}, fmt.Errorf("sign in: %w", err)
	}

	creds := Credentials{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(session.ExpiresIn) * time.Second),
		UserId:       session.User.ID.String(),
		Email:        session.User.Email,
	}
	if err := i.store.Save(creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// SignOut invalidates the server session when possible and always drops the
// local credentials.
func (i *Identity) SignOut() error {
	if creds, ok := i.store.Current(); ok {
		// Best effort: a dead server session expires on its own.
		_ = i.client.Auth.WithToken(creds.AccessToken).Logout()
	}
	return i.store.Clear()
}

// Refresh trades the refresh token for a new session and persists it.
func (i *Identity) Refresh() (Credentials, error) {
	creds, ok := i.store.Current()
	if !ok || creds.RefreshToken == "" {
		return Credentials{}, ErrNotAuthenticated
	}

	session, err := i.client.RefreshToken(creds.RefreshToken)
	if err != nil {
		return Credentials{}, fmt.Errorf("refresh session: %w", err)
	}

	next := Credentials{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(session.ExpiresIn) * time.Second),
		UserId:       creds.UserId,
		Email:        creds.Email,
	}
	if session.User.ID.String() != "00000000-0000-0000-0000-000000000000" {
		next.UserId = session.User.ID.String()
		next.Email = session.User.Email
	}
	if err := i.store.Save(next); err != nil {
		return Credentials{}, err
	}
	return next, nil
}

// CurrentUser validates the stored token against the provider and returns
// the user id and email.
func (i *Identity) CurrentUser() (userId, email string, err error) {
	creds, ok := i.store.Current()
	if !ok {
		return "", "", ErrNotAuthenticated
	}
	user, err := i.client.Auth.WithToken(creds.AccessToken).GetUser()
	if err != nil {
		return "", "", fmt.Errorf("fetch current user: %w", err)
	}
	return user.ID.String(), user.Email, nil
}
