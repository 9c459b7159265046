package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one entry of the conversation log. Messages are immutable
// once appended; ordering is append order.
type ChatMessage struct {
	Id           uuid.UUID
	Role         string
	Content      string
	CreatedAt    time.Time
	ShowDownload bool
	ShowPreview  bool
	Options      []string
	Selection    *SelectionContext
}

// ChatSession is the server-side listing view of a conversation.
type ChatSession struct {
	Id        string
	Title     string
	Folder    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SessionState is the live conversation state a container owns: the session
// key, the ordered message log, and the transient flags a host renders.
// Mutation goes through the owning container only; everyone else gets
// snapshots.
type SessionState struct {
	Id            string
	Messages      []ChatMessage
	IsInitialized bool
	IsTyping      bool
	OperationType string
}
