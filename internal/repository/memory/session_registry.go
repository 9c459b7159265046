package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ginogen/litigium-sub001/internal/entity"
)

// SessionRegistry keeps live conversation states keyed by session id so a
// host can hop between sessions without refetching history every time.
// Entries expire on inactivity; the server stays the source of truth.
type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry() *SessionRegistry {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRegistry{
		cache: c,
	}
}

// Save stores a snapshot of the state. The caller keeps mutating its own
// copy under its own lock; the registry never holds a live pointer.
func (r *SessionRegistry) Save(state *entity.SessionState) {
	if state == nil || state.Id == "" {
		return
	}
	r.cache.Set(state.Id, copyState(state), cache.DefaultExpiration)
}

// Get returns a snapshot the caller may adopt and mutate freely.
func (r *SessionRegistry) Get(sessionID string) (*entity.SessionState, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	return copyState(x.(*entity.SessionState)), true
}

func (r *SessionRegistry) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func copyState(state *entity.SessionState) *entity.SessionState {
	snapshot := *state
	snapshot.Messages = make([]entity.ChatMessage, len(state.Messages))
	copy(snapshot.Messages, state.Messages)
	return &snapshot
}
