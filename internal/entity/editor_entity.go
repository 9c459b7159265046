package entity

import (
	"time"

	"github.com/google/uuid"
)

// Paragraph is one numbered block of the working document. Numbers are
// 1-based ordinals re-derived wholesale on every reload; they carry no
// stable identity across reloads.
type Paragraph struct {
	Number     int
	Content    string
	Category   string
	Modified   bool
	ModifiedAt *time.Time
}

// EditHistoryEntry records one natural-language edit command and the server
// verdict for it. The history is append-only and never reordered.
type EditHistoryEntry struct {
	Id              uuid.UUID
	Command         string
	Operation       string
	ParagraphNumber *int
	CreatedAt       time.Time
	Success         bool
	Message         string
}
