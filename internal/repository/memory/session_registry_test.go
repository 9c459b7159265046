package memory

import (
	"testing"

	"github.com/ginogen/litigium-sub001/internal/entity"
)

func TestSessionRegistryRoundTrip(t *testing.T) {
	registry := NewSessionRegistry()

	state := &entity.SessionState{
		Id:            "sesion-1",
		IsInitialized: true,
		Messages:      []entity.ChatMessage{{Role: "bot", Content: "hola"}},
	}
	registry.Save(state)

	got, ok := registry.Get("sesion-1")
	if !ok {
		t.Fatal("expected a hit for a saved session")
	}
	if got.Id != "sesion-1" || len(got.Messages) != 1 {
		t.Fatalf("unexpected state: %+v", got)
	}

	registry.Delete("sesion-1")
	if _, ok := registry.Get("sesion-1"); ok {
		t.Error("expected a miss after delete")
	}
}

func TestSessionRegistryStoresSnapshots(t *testing.T) {
	registry := NewSessionRegistry()

	state := &entity.SessionState{
		Id:       "sesion-1",
		Messages: []entity.ChatMessage{{Role: "bot", Content: "hola"}},
	}
	registry.Save(state)

	// The owner keeps mutating its copy after the save; the registry must
	// not see those mutations.
	state.Messages = append(state.Messages, entity.ChatMessage{Role: "user", Content: "sigo escribiendo"})
	state.IsTyping = true

	got, _ := registry.Get("sesion-1")
	if len(got.Messages) != 1 {
		t.Errorf("registry leaked live state: %d messages, want 1", len(got.Messages))
	}
	if got.IsTyping {
		t.Error("registry leaked live state: IsTyping flipped after save")
	}

	// And a returned snapshot is the caller's to mutate.
	got.Messages[0].Content = "modificado"
	again, _ := registry.Get("sesion-1")
	if again.Messages[0].Content != "hola" {
		t.Errorf("Get returned an aliased snapshot: %q", again.Messages[0].Content)
	}
}

func TestSessionRegistryIgnoresUnkeyedStates(t *testing.T) {
	registry := NewSessionRegistry()
	registry.Save(nil)
	registry.Save(&entity.SessionState{})
	if _, ok := registry.Get(""); ok {
		t.Error("expected no entry for an empty session id")
	}
}
